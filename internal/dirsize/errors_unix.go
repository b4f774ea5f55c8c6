//go:build unix

package dirsize

import (
	"errors"

	"golang.org/x/sys/unix"
)

// isResourceExhausted reports descriptor or memory pressure that may clear up.
// EINTR is included because the stat calls are not restarted in place.
func isResourceExhausted(err error) bool {
	var errno unix.Errno
	if !errors.As(err, &errno) {
		return false
	}

	switch errno {
	case unix.EMFILE, unix.ENFILE, unix.ENOMEM, unix.EAGAIN, unix.EINTR:
		return true
	default:
		return false
	}
}

// isUnresolvable reports a symlink chain that never reaches a target.
func isUnresolvable(err error) bool {
	return errors.Is(err, unix.ELOOP)
}
