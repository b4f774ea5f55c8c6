package dirsize

import "os"

// FileType classifies a filesystem entry.
type FileType int

const (
	// Other covers devices, sockets, pipes and anything else that carries no size.
	Other FileType = iota
	// Regular is a regular file.
	Regular
	// Dir is a directory.
	Dir
	// Symlink is a symbolic link.
	Symlink
)

// String returns a lowercase name for the file type.
func (t FileType) String() string {
	switch t {
	case Regular:
		return "regular"
	case Dir:
		return "dir"
	case Symlink:
		return "symlink"
	default:
		return "other"
	}
}

// Metadata is the subset of stat information the traversal needs.
type Metadata struct {
	// Type is the file type (of the link itself unless followed).
	Type FileType
	// Size is the length in bytes.
	Size uint64
	// Dev is the device id.
	Dev uint64
	// Ino is the inode number.
	Ino uint64
	// Nlink is the hard link count.
	Nlink uint64
}

// hasIdentity reports whether Dev and Ino identify the object. Platforms
// without inode numbers report zero.
func (m Metadata) hasIdentity() bool {
	return m.Ino != 0
}

// fileSystem is what a traversal reads from.
type fileSystem interface {
	// Stat returns metadata for path. When follow is false the final
	// path element is not resolved if it is a symlink.
	Stat(path string, follow bool) (Metadata, error)
	// List returns the names of the immediate children of the directory at path.
	List(path string) ([]string, error)
}

// osFS is the host filesystem.
type osFS struct{}

func (osFS) Stat(path string, follow bool) (Metadata, error) {
	if follow {
		return stat(path)
	}

	return lstat(path)
}

func (osFS) List(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return f.Readdirnames(-1)
}
