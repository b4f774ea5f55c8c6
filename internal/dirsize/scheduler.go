package dirsize

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// traversal is the state of one size computation. Everything except the
// pools is owned by the driving loop in run.
type traversal struct {
	opt  Options
	fsys fileSystem
	log  *slog.Logger

	meta   *pool[fetchOutcome]
	expand *pool[expandOutcome]

	// hardlinks holds inodes of counted files with more than one link.
	hardlinks inodeSet
	// dirs holds expanded directories when following symlinks.
	dirs inodeSet

	usage    Usage
	progress *progress
}

func newTraversal(opt Options, fsys fileSystem) *traversal {
	log := opt.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	return &traversal{
		opt:       opt,
		fsys:      fsys,
		log:       log,
		hardlinks: make(inodeSet),
		dirs:      make(inodeSet),
		progress:  &progress{},
	}
}

// maxRetries resolves Options.MaxRetries.
func (t *traversal) maxRetries() int {
	if t.opt.MaxRetries == 0 {
		return DefaultMaxRetries
	}

	return t.opt.MaxRetries
}

// run drives both pools until they are empty at the same time, or until the
// first fatal error. In-flight tasks are awaited before returning.
func (t *traversal) run(ctx context.Context, root string) error {
	taskCtx, cancel := context.WithCancel(ctx)

	t.meta = newPool(taskCtx, func(path string, err error) fetchOutcome {
		return fetchOutcome{path: path, err: err}
	})
	t.expand = newPool(taskCtx, func(path string, err error) expandOutcome {
		return expandOutcome{path: path, err: err}
	})

	defer func() {
		t.expand.close()
		t.meta.close()
		cancel()
		t.expand.wait()
		t.meta.wait()
	}()

	t.meta.submit(t.fetchTask(root, false, retryState{}, 0))

	for {
		for {
			out, ok := t.expand.tryNext()
			if !ok {
				break
			}

			if err := t.expanded(out); err != nil {
				return err
			}
		}

		if t.meta.len() == 0 {
			out, ok, err := t.expand.next(ctx)
			if err != nil {
				return err
			}

			if !ok {
				return nil
			}

			if err := t.expanded(out); err != nil {
				return err
			}

			continue
		}

		out, ok, err := t.meta.next(ctx)
		if err != nil {
			return err
		}

		if !ok {
			continue
		}

		if err := t.fetched(out); err != nil {
			return err
		}
	}
}

// expanded routes a finished directory listing.
func (t *traversal) expanded(out expandOutcome) error {
	if out.err == nil {
		return nil
	}

	kind := classify(out.err)

	switch kind {
	case kindNotFound:
		t.usage.Vanished++
		t.log.Debug("directory vanished", "path", out.path, "kind", kind.String())

		return nil
	case kindExhausted:
		delay, err := t.retry(&out.retry, out.path, kind, out.err)
		if err != nil {
			return err
		}

		t.expand.submit(t.expandTask(out.path, out.retry, delay))

		return nil
	default:
		t.log.Debug("listing failed", "path", out.path, "kind", kind.String(), "error", out.err)

		return out.err
	}
}

// fetched routes a finished metadata fetch.
func (t *traversal) fetched(out fetchOutcome) error {
	if out.err != nil {
		kind := classify(out.err)

		switch kind {
		case kindNotFound:
			t.usage.Vanished++
			t.log.Debug("path vanished", "path", out.path, "follow", out.follow, "kind", kind.String())

			return nil
		case kindExhausted:
			delay, err := t.retry(&out.retry, out.path, kind, out.err)
			if err != nil {
				return err
			}

			t.meta.submit(t.fetchTask(out.path, out.follow, out.retry, delay))

			return nil
		default:
			t.log.Debug("stat failed", "path", out.path, "kind", kind.String(), "error", out.err)

			return out.err
		}
	}

	meta := out.meta

	switch meta.Type {
	case Regular:
		t.count(out.path, meta)
	case Dir:
		if t.opt.FollowSymlinks && meta.hasIdentity() && !t.dirs.observe(meta.Dev, meta.Ino) {
			t.usage.Revisited++
			t.log.Debug("directory already expanded", "path", out.path, "type", meta.Type.String())

			return nil
		}

		t.usage.Dirs++
		t.expand.submit(t.expandTask(out.path, retryState{}, 0))
	case Symlink:
		t.usage.Symlinks++

		if t.opt.FollowSymlinks && !out.follow {
			t.meta.submit(t.fetchTask(out.path, true, retryState{}, 0))
		}
	case Other:
		t.log.Debug("skipping entry", "path", out.path, "type", meta.Type.String())
	}

	return nil
}

// count adds a regular file to the total unless it is a hard link already counted.
func (t *traversal) count(path string, meta Metadata) {
	if !t.opt.IgnoreHardlinks && meta.Nlink > 1 && !t.hardlinks.observe(meta.Dev, meta.Ino) {
		t.usage.Deduplicated++
		t.log.Debug("hard link already counted", "path", path, "inode", meta.Ino)

		return
	}

	t.usage.Files++
	t.usage.TotalBytes += meta.Size
	t.progress.publish(t.usage.Files, t.usage.TotalBytes)
}

// retry advances the retry state of a transiently failing path.
func (t *traversal) retry(state *retryState, path string, kind errorKind, cause error) (time.Duration, error) {
	delay, ok := state.next(t.maxRetries())
	if !ok {
		return 0, fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, state.attempt, cause)
	}

	t.usage.Retries++
	t.log.Debug("retrying", "path", path, "kind", kind.String(), "attempt", state.attempt, "delay", delay, "error", cause)

	return delay, nil
}
