// Package concurrency provides inter-process synchronization for splice
// runs. Two runs publishing into the same output repository would race the
// branch update, so a run holds a file lock inside the repository for its
// whole duration.
package concurrency

import (
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
)

type RepoLock struct {
	mu *flock.Flock
}

// NewRepoLock creates a lock scoped to the repository at gitDir (the .git
// directory, so working-copy checkouts of the same repo share it).
func NewRepoLock(gitDir string) *RepoLock {
	return &RepoLock{mu: flock.New(filepath.Join(gitDir, "splice.lock"))}
}

// Acquire takes the lock, failing immediately if another run holds it. A
// splice recomputes everything from scratch, so waiting behind another run
// would only duplicate its work.
func (l *RepoLock) Acquire() error {
	ok, err := l.mu.TryLock()
	if err != nil {
		return fmt.Errorf("failed to lock %s: %w", l.mu.Path(), err)
	}
	if !ok {
		return fmt.Errorf("another splice run holds %s", l.mu.Path())
	}
	return nil
}

func (l *RepoLock) Release() error {
	return l.mu.Unlock()
}
