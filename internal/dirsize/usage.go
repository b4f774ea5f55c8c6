package dirsize

import (
	"sync/atomic"
	"time"
)

// Usage holds the result of one traversal.
type Usage struct {
	// TotalBytes is the cumulative size of all counted regular files.
	TotalBytes uint64 `json:"total_bytes"`
	// Files is the number of regular files counted.
	Files int64 `json:"files"`
	// Dirs is the number of directories expanded.
	Dirs int64 `json:"dirs"`
	// Symlinks is the number of symbolic links encountered.
	Symlinks int64 `json:"symlinks"`
	// Deduplicated is the number of hard links skipped because their inode was already counted.
	Deduplicated int64 `json:"deduplicated"`
	// Vanished is the number of paths removed between listing and stat, plus
	// followed links that are dangling or loop.
	Vanished int64 `json:"vanished"`
	// Retries is the number of operations resubmitted after a transient failure.
	Retries int64 `json:"retries"`
	// Revisited is the number of directories reached again through a followed symlink.
	Revisited int64 `json:"revisited"`
	// Elapsed is the total time taken.
	Elapsed time.Duration `json:"elapsed"`
}

// progress is a snapshot of the running counters, published by the driving
// loop and read by the progress reporter.
type progress struct {
	files atomic.Int64
	bytes atomic.Uint64
}

func (p *progress) publish(files int64, bytes uint64) {
	p.files.Store(files)
	p.bytes.Store(bytes)
}

func (p *progress) load() (int64, uint64) {
	return p.files.Load(), p.bytes.Load()
}
