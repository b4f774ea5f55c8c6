//go:build unix

package dirsize

import (
	"io/fs"
	"math/rand/v2"
	"path"
	"strings"
	"sync"
	"time"

	"golang.org/x/sys/unix"
)

type fakeNode struct {
	meta     Metadata
	children []string
	target   string
}

// fakeFS is an in-memory tree with optional random latency and injected errors.
type fakeFS struct {
	mu       sync.Mutex
	nodes    map[string]*fakeNode
	statErrs map[string][]error
	listErrs map[string][]error
	panics   map[string]bool
	rng      *rand.Rand
	maxDelay time.Duration
	delay    time.Duration
	nextIno  uint64
}

func newFakeFS() *fakeFS {
	f := &fakeFS{
		nodes:    make(map[string]*fakeNode),
		statErrs: make(map[string][]error),
		listErrs: make(map[string][]error),
		panics:   make(map[string]bool),
	}
	f.addDir("/r")

	return f
}

// withJitter makes every call sleep a random duration up to max and shuffles listings.
func (f *fakeFS) withJitter(seed uint64, maxDelay time.Duration) *fakeFS {
	f.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	f.maxDelay = maxDelay

	return f
}

func (f *fakeFS) ino() uint64 {
	f.nextIno++

	return f.nextIno
}

func (f *fakeFS) attach(p string, node *fakeNode) {
	f.nodes[p] = node

	if parent, ok := f.nodes[path.Dir(p)]; ok && p != "/r" {
		parent.children = append(parent.children, path.Base(p))
	}
}

func (f *fakeFS) addDir(p string) {
	f.attach(p, &fakeNode{meta: Metadata{Type: Dir, Size: 4096, Dev: 1, Ino: f.ino(), Nlink: 2}})
}

func (f *fakeFS) addFile(p string, size uint64) {
	f.attach(p, &fakeNode{meta: Metadata{Type: Regular, Size: size, Dev: 1, Ino: f.ino(), Nlink: 1}})
}

// addHardlink makes p another name for the file at existing.
func (f *fakeFS) addHardlink(p, existing string) {
	orig := f.nodes[existing]
	orig.meta.Nlink++

	for _, n := range f.nodes {
		if n.meta.Ino == orig.meta.Ino {
			n.meta.Nlink = orig.meta.Nlink
		}
	}

	f.attach(p, &fakeNode{meta: orig.meta})
}

func (f *fakeFS) addSymlink(p, target string) {
	f.attach(p, &fakeNode{meta: Metadata{Type: Symlink, Size: uint64(len(target)), Dev: 1, Ino: f.ino(), Nlink: 1}, target: target})
}

// vanish removes p but keeps it in its parent's listing, as if it was
// deleted between the listing and the stat.
func (f *fakeFS) vanish(p string) {
	delete(f.nodes, p)
}

func (f *fakeFS) sleep() {
	f.mu.Lock()
	d := f.delay
	if f.rng != nil && f.maxDelay > 0 {
		d += time.Duration(f.rng.Int64N(int64(f.maxDelay)))
	}
	f.mu.Unlock()

	if d > 0 {
		time.Sleep(d)
	}
}

func (f *fakeFS) pop(errs map[string][]error, p string) error {
	queue := errs[p]
	if len(queue) == 0 {
		return nil
	}

	errs[p] = queue[1:]

	return queue[0]
}

// resolve looks p up, resolving symlinks in every element but the last,
// and in the last one too when followLast is set. Link targets are real paths.
func (f *fakeFS) resolve(p string, followLast bool) (*fakeNode, error) {
	parts := strings.Split(strings.TrimPrefix(p, "/"), "/")
	cur := ""
	hops := 0

	for i, part := range parts {
		cur += "/" + part

		node, ok := f.nodes[cur]
		if !ok {
			return nil, &fs.PathError{Op: "lstat", Path: p, Err: fs.ErrNotExist}
		}

		last := i == len(parts)-1

		for node.meta.Type == Symlink && (!last || followLast) {
			hops++
			if hops > 40 {
				return nil, &fs.PathError{Op: "stat", Path: p, Err: unix.ELOOP}
			}

			cur = node.target

			node, ok = f.nodes[cur]
			if !ok {
				return nil, &fs.PathError{Op: "stat", Path: p, Err: fs.ErrNotExist}
			}
		}

		if last {
			return node, nil
		}
	}

	return nil, &fs.PathError{Op: "lstat", Path: p, Err: fs.ErrNotExist}
}

func (f *fakeFS) Stat(p string, follow bool) (Metadata, error) {
	f.sleep()

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.panics[p] {
		panic("stat exploded: " + p)
	}

	if err := f.pop(f.statErrs, p); err != nil {
		return Metadata{}, err
	}

	node, err := f.resolve(p, follow)
	if err != nil {
		return Metadata{}, err
	}

	return node.meta, nil
}

func (f *fakeFS) List(p string) ([]string, error) {
	f.sleep()

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.pop(f.listErrs, p); err != nil {
		return nil, err
	}

	node, err := f.resolve(p, true)
	if err != nil {
		return nil, err
	}

	names := append([]string(nil), node.children...)

	if f.rng != nil {
		f.rng.Shuffle(len(names), func(i, j int) { names[i], names[j] = names[j], names[i] })
	}

	return names, nil
}
