package dirsize

import "io/fs"

// fromMode builds Metadata from the portable parts of an fs.FileInfo.
func fromMode(info fs.FileInfo) Metadata {
	meta := Metadata{Nlink: 1}

	mode := info.Mode()

	switch {
	case mode.IsRegular():
		meta.Type = Regular
		meta.Size = uint64(info.Size()) //nolint:gosec // Size is never negative
	case mode.IsDir():
		meta.Type = Dir
		meta.Size = uint64(info.Size()) //nolint:gosec // Size is never negative
	case mode&fs.ModeSymlink != 0:
		meta.Type = Symlink
		meta.Size = uint64(info.Size()) //nolint:gosec // Size is never negative
	default:
		meta.Type = Other
	}

	return meta
}
