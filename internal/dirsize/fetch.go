package dirsize

import (
	"context"
	"errors"
	"io/fs"
	"time"
)

// fetchOutcome is the result of one metadata fetch.
type fetchOutcome struct {
	path   string
	follow bool
	retry  retryState
	meta   Metadata
	err    error
}

// fetchTask stats path after delay. With follow set the link is resolved.
func (t *traversal) fetchTask(path string, follow bool, retry retryState, delay time.Duration) task[fetchOutcome] {
	return task[fetchOutcome]{
		path: path,
		run: func(ctx context.Context) fetchOutcome {
			out := fetchOutcome{path: path, follow: follow, retry: retry}

			if err := sleep(ctx, delay); err != nil {
				out.err = err

				return out
			}

			out.meta, out.err = t.fsys.Stat(path, follow)
			if out.err != nil {
				op := "lstat"
				if follow {
					op = "stat"
				}

				out.err = pathError(op, path, out.err)
			}

			return out
		},
	}
}

// pathError makes sure err names the offending path.
func pathError(op, path string, err error) error {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return err
	}

	return &fs.PathError{Op: op, Path: path, Err: err}
}
