package pipeline

import (
	"context"
	"sync"
)

// filenameLocks serializes jobs that share a filename, so the duplicate
// check and the write of one job cannot interleave with another's.
// Entries are dropped once nobody holds or waits for them.
type filenameLocks struct {
	mu    sync.Mutex
	locks map[string]*filenameLock
}

type filenameLock struct {
	token chan struct{}
	refs  int
}

func newFilenameLocks() *filenameLocks {
	return &filenameLocks{locks: make(map[string]*filenameLock)}
}

// acquire blocks until name is free or ctx is done.
func (l *filenameLocks) acquire(ctx context.Context, name string) (release func(), err error) {
	l.mu.Lock()
	fl := l.locks[name]
	if fl == nil {
		fl = &filenameLock{token: make(chan struct{}, 1)}
		l.locks[name] = fl
	}
	fl.refs++
	l.mu.Unlock()

	select {
	case fl.token <- struct{}{}:
		var once sync.Once
		return func() {
			once.Do(func() {
				<-fl.token
				l.drop(name, fl)
			})
		}, nil
	case <-ctx.Done():
		l.drop(name, fl)
		return nil, ctx.Err()
	}
}

func (l *filenameLocks) drop(name string, fl *filenameLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fl.refs--
	if fl.refs == 0 {
		delete(l.locks, name)
	}
}

func (l *filenameLocks) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
