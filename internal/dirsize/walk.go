package dirsize

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"
	"time"

	"github.com/charlievieth/fastwalk"
)

// walkState is the shared accumulator of Walk. fastwalk invokes the callback
// from several goroutines, so every field is guarded by mu.
type walkState struct {
	opt Options

	mu        sync.Mutex
	usage     Usage
	hardlinks inodeSet
	dirs      inodeSet
}

// add counts a regular file unless it is a hard link already counted.
func (w *walkState) add(meta Metadata) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.opt.IgnoreHardlinks && meta.Nlink > 1 && !w.hardlinks.observe(meta.Dev, meta.Ino) {
		w.usage.Deduplicated++

		return
	}

	w.usage.Files++
	w.usage.TotalBytes += meta.Size
}

func (w *walkState) bump(counter *int64) {
	w.mu.Lock()
	*counter++
	w.mu.Unlock()
}

// enter records a directory and reports whether it should be walked.
// When following, a directory already walked under another path is refused.
func (w *walkState) enter(meta Metadata) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.opt.FollowSymlinks && meta.hasIdentity() && !w.dirs.observe(meta.Dev, meta.Ino) {
		w.usage.Revisited++

		return false
	}

	w.usage.Dirs++

	return true
}

// benign reports whether err is dropped like a vanished path.
func (w *walkState) benign(err error) bool {
	if classify(err) != kindNotFound {
		return false
	}

	w.bump(&w.usage.Vanished)

	return true
}

// Walk computes the same total as Run using fastwalk's bounded worker pool
// instead of the task scheduler. Hard link and symlink policy match Run,
// including the once-per-directory rule when following. Vanished paths are
// ignored, but transient errors are not retried.
//
// fastwalk is never asked to follow links itself; followed links to
// directories are handed back to it with fastwalk.ErrTraverseLink once
// their target has been recorded.
func Walk(ctx context.Context, opt Options) (*Usage, error) {
	if opt.Path == "" {
		opt.Path = "."
	}

	opt.Path = filepath.Clean(opt.Path)

	w := &walkState{
		opt:       opt,
		hardlinks: make(inodeSet),
		dirs:      make(inodeSet),
	}

	start := time.Now()

	walk, err := w.root(opt.Path)
	if err != nil {
		return nil, err
	}

	if walk {
		conf := &fastwalk.Config{Follow: false}

		if err := fastwalk.Walk(conf, opt.Path, w.visitor(ctx)); err != nil {
			return nil, fmt.Errorf("walking %q: %w", opt.Path, err)
		}
	}

	w.usage.Elapsed = time.Since(start)

	return &w.usage, nil
}

// root applies the policy to the root itself and reports whether it is a
// directory left for fastwalk. fastwalk stats the root through links, so a
// symlink or file root never reaches it.
func (w *walkState) root(path string) (bool, error) {
	var fsys osFS

	meta, err := fsys.Stat(path, false)
	if err != nil {
		return false, fmt.Errorf("accessing path %q: %w", path, err)
	}

	if meta.Type == Symlink {
		w.usage.Symlinks++

		if !w.opt.FollowSymlinks {
			return false, nil
		}

		if meta, err = fsys.Stat(path, true); err != nil {
			if w.benign(err) {
				return false, nil
			}

			return false, err
		}
	}

	switch meta.Type {
	case Regular:
		w.add(meta)
	case Dir:
		// The root is recorded by the callback fastwalk makes for it.
		return true, nil
	case Symlink, Other:
	}

	return false, nil
}

//nolint:varnamelen // d is standard for DirEntry
func (w *walkState) visitor(ctx context.Context) fs.WalkDirFunc {
	return func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if w.benign(err) {
				return nil
			}

			return err
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		switch {
		case d.IsDir():
			meta, err := entryMeta(d)
			if err != nil {
				if w.benign(err) {
					return fastwalk.SkipDir
				}

				return err
			}

			if !w.enter(meta) {
				return fastwalk.SkipDir
			}

			return nil
		case d.Type()&fs.ModeSymlink != 0:
			w.bump(&w.usage.Symlinks)

			if !w.opt.FollowSymlinks {
				return nil
			}

			target, err := osFS{}.Stat(path, true)
			if err != nil {
				if w.benign(err) {
					return nil
				}

				return err
			}

			switch target.Type {
			case Regular:
				w.add(target)
			case Dir:
				if w.enter(target) {
					return fastwalk.ErrTraverseLink
				}
			case Symlink, Other:
			}

			return nil
		case d.Type().IsRegular():
			meta, err := entryMeta(d)
			if err != nil {
				if w.benign(err) {
					return nil
				}

				return err
			}

			if meta.Type == Regular {
				w.add(meta)
			}

			return nil
		default:
			return nil
		}
	}
}

// entryMeta returns the metadata of an entry without following it. The root
// entry fastwalk synthesises already carries the followed stat.
func entryMeta(d fs.DirEntry) (Metadata, error) {
	info, err := d.Info()
	if err != nil {
		return Metadata{}, err
	}

	return fromFileInfo(info), nil
}
