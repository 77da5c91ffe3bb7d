package services

import (
	"path/filepath"
	"sync"
)

// pathLocks serializes mutating calls per source document. The lock is
// held from conversion through version allocation and the final write, so
// two concurrent patches of the same file cannot race for the same
// version number.
type pathLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newPathLocks() *pathLocks {
	return &pathLocks{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for the canonical form of path and returns the
// matching unlock function.
func (p *pathLocks) Lock(path string) func() {
	key := canonicalPath(path)

	p.mu.Lock()
	l, ok := p.locks[key]
	if !ok {
		l = &sync.Mutex{}
		p.locks[key] = l
	}
	p.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// canonicalPath normalizes a path so spellings like "./a.docx" and
// "a.docx" map to the same lock.
func canonicalPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}
