package dirsize

import (
	"errors"
	"fmt"
	"io/fs"
)

var (
	// ErrRetriesExhausted is returned when a path keeps failing with a
	// transient error beyond Options.MaxRetries.
	ErrRetriesExhausted = errors.New("retries exhausted")
	// ErrTaskPanicked is wrapped by TaskError.
	ErrTaskPanicked = errors.New("task panicked")
)

// TaskError reports a task that failed without producing an outcome.
type TaskError struct {
	// Path is the path the task was working on.
	Path string
	// Value is the recovered panic value.
	Value any
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Path, ErrTaskPanicked, e.Value)
}

// Unwrap returns ErrTaskPanicked.
func (e *TaskError) Unwrap() error {
	return ErrTaskPanicked
}

// errorKind is the retry class of an I/O failure.
type errorKind int

const (
	// kindFatal aborts the traversal.
	kindFatal errorKind = iota
	// kindNotFound is a benign race with a concurrent removal, or a
	// symlink whose target cannot be resolved.
	kindNotFound
	// kindExhausted is transient resource pressure; the operation is resubmitted.
	kindExhausted
)

func (k errorKind) String() string {
	switch k {
	case kindNotFound:
		return "not-found"
	case kindExhausted:
		return "resource-exhausted"
	default:
		return "fatal"
	}
}

// classify maps an I/O error onto its retry class.
func classify(err error) errorKind {
	var taskErr *TaskError

	switch {
	case errors.As(err, &taskErr):
		return kindFatal
	case errors.Is(err, fs.ErrNotExist), isUnresolvable(err):
		return kindNotFound
	case isResourceExhausted(err):
		return kindExhausted
	default:
		return kindFatal
	}
}
