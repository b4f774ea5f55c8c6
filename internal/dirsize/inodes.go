package dirsize

// DevIno uniquely identifies an inode across devices.
type DevIno struct {
	Dev uint64
	Ino uint64
}

// inodeSet records inodes seen during one traversal. It is only touched by
// the driving loop and is not safe for concurrent use.
type inodeSet map[DevIno]struct{}

// observe reports whether key is seen for the first time, recording it.
func (s inodeSet) observe(dev, ino uint64) bool {
	key := DevIno{Dev: dev, Ino: ino}
	if _, ok := s[key]; ok {
		return false
	}

	s[key] = struct{}{}

	return true
}
