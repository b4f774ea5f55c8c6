//go:build unix

package dirsize

import (
	"io/fs"
	"syscall"

	"golang.org/x/sys/unix"
)

// lstat and stat leave EINTR to the caller, which classifies it as transient.
func lstat(path string) (Metadata, error) {
	var st unix.Stat_t

	if err := unix.Lstat(path, &st); err != nil {
		return Metadata{}, &fs.PathError{Op: "lstat", Path: path, Err: err}
	}

	return fromStat(&st), nil
}

func stat(path string) (Metadata, error) {
	var st unix.Stat_t

	if err := unix.Stat(path, &st); err != nil {
		return Metadata{}, &fs.PathError{Op: "stat", Path: path, Err: err}
	}

	return fromStat(&st), nil
}

//nolint:unconvert // field widths differ between platforms
func fromStat(st *unix.Stat_t) Metadata {
	meta := Metadata{
		Size:  uint64(st.Size), //nolint:gosec // Size is never negative
		Dev:   uint64(st.Dev),  //nolint:gosec // device ids are opaque
		Ino:   uint64(st.Ino),
		Nlink: uint64(st.Nlink),
	}

	switch uint32(st.Mode) & unix.S_IFMT {
	case unix.S_IFREG:
		meta.Type = Regular
	case unix.S_IFDIR:
		meta.Type = Dir
	case unix.S_IFLNK:
		meta.Type = Symlink
	default:
		meta.Type = Other
	}

	return meta
}

// fromFileInfo extracts Metadata from an fs.FileInfo, taking the inode
// identity from the raw stat record when there is one.
//
//nolint:unconvert // field widths differ between platforms
func fromFileInfo(info fs.FileInfo) Metadata {
	meta := fromMode(info)

	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		meta.Dev = uint64(st.Dev) //nolint:gosec // device ids are opaque
		meta.Ino = uint64(st.Ino)
		meta.Nlink = uint64(st.Nlink)
	}

	return meta
}
