package dirsize

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Run computes the total size of the tree rooted at opt.Path.
//
// Regular files are summed by length. Hard links to an already counted
// inode are skipped unless opt.IgnoreHardlinks is set. Symlinks contribute
// nothing unless opt.FollowSymlinks is set, in which case their targets are
// processed as if found at the link's path. Paths that vanish during the
// walk are ignored, transient resource errors are retried, and any other
// I/O error aborts the whole computation. Following a link whose chain
// loops (ELOOP) is treated like following a dangling link.
//
// When following, every directory is expanded at most once, identified by
// device and inode. A link to a directory that is also reachable inside the
// tree therefore adds nothing, while a link to a file inside the tree adds
// the file's size a second time (the link count is 1, so it is not a hard
// link). This matches du -L. A link to a directory outside the tree adds
// that directory's contents.
//
// Progress updates are sent to progressHook if provided.
func Run(ctx context.Context, opt Options, progressHook func(files int64, bytes uint64)) (*Usage, error) {
	if opt.Path == "" {
		opt.Path = "."
	}

	opt.Path = filepath.Clean(opt.Path)

	if _, err := os.Lstat(opt.Path); err != nil {
		return nil, fmt.Errorf("accessing path %q: %w", opt.Path, err)
	}

	switch opt.Engine {
	case "", EngineScheduler:
	case EngineFastwalk:
		return Walk(ctx, opt)
	default:
		return nil, fmt.Errorf("unknown engine %q", opt.Engine)
	}

	return run(ctx, opt, osFS{}, progressHook)
}

func run(ctx context.Context, opt Options, fsys fileSystem, progressHook func(int64, uint64)) (*Usage, error) {
	t := newTraversal(opt, fsys)

	// Create child context to ensure progress reporter cleanup
	reportCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	startProgressReporter(reportCtx, t.progress, progressHook, opt.ProgressInterval)

	start := time.Now()

	if err := t.run(ctx, opt.Path); err != nil {
		return nil, err
	}

	usage := t.usage
	usage.Elapsed = time.Since(start)

	t.log.Debug("traversal complete",
		"path", opt.Path,
		"bytes", usage.TotalBytes,
		"files", usage.Files,
		"dirs", usage.Dirs,
		"deduplicated", usage.Deduplicated,
		"vanished", usage.Vanished,
		"retries", usage.Retries,
		"elapsed", usage.Elapsed,
	)

	return &usage, nil
}
