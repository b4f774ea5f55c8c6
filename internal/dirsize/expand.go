package dirsize

import (
	"context"
	"path/filepath"
	"time"
)

// expandOutcome is the result of listing one directory. Children were
// already submitted as fetches, so success carries nothing.
type expandOutcome struct {
	path  string
	retry retryState
	err   error
}

// expandTask lists the directory at path after delay and submits one fetch
// per child. The listing completes before the metadata pool is touched, and
// the whole batch goes in under a single lock.
func (t *traversal) expandTask(path string, retry retryState, delay time.Duration) task[expandOutcome] {
	return task[expandOutcome]{
		path: path,
		run: func(ctx context.Context) expandOutcome {
			out := expandOutcome{path: path, retry: retry}

			if err := sleep(ctx, delay); err != nil {
				out.err = err

				return out
			}

			names, err := t.fsys.List(path)
			if err != nil {
				out.err = pathError("readdir", path, err)

				return out
			}

			batch := make([]task[fetchOutcome], 0, len(names))
			for _, name := range names {
				batch = append(batch, t.fetchTask(filepath.Join(path, name), false, retryState{}, 0))
			}

			t.meta.submit(batch...)

			return out
		},
	}
}
