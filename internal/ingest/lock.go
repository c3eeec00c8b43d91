package ingest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// NamespaceLock serializes index writers across processes using
// gofrs/flock. Two zeroindex invocations ingesting into the same
// namespace would otherwise race on the index file despite the atomic
// rename, losing one writer's fragments.
// Works on all platforms (Unix, Linux, macOS, Windows).
type NamespaceLock struct {
	path   string
	flock  *flock.Flock
	locked bool
}

// NewNamespaceLock creates a lock for the given namespace directory.
// The lock file lives at <dir>/.ingest.lock
func NewNamespaceLock(dir string) *NamespaceLock {
	lockPath := filepath.Join(dir, ".ingest.lock")
	return &NamespaceLock{
		path:  lockPath,
		flock: flock.New(lockPath),
	}
}

// Lock acquires an exclusive lock, blocking until it is available.
// The namespace directory is created if missing.
func (l *NamespaceLock) Lock() error {
	dir := filepath.Dir(l.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create lock directory: %w", err)
	}

	if err := l.flock.Lock(); err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}

	l.locked = true
	return nil
}

// TryLock attempts to acquire the lock without blocking.
// Returns true if the lock was acquired, false if another process holds it.
func (l *NamespaceLock) TryLock() (bool, error) {
	dir := filepath.Dir(l.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return false, fmt.Errorf("failed to create lock directory: %w", err)
	}

	acquired, err := l.flock.TryLock()
	if err != nil {
		return false, fmt.Errorf("failed to acquire lock: %w", err)
	}

	if acquired {
		l.locked = true
	}
	return acquired, nil
}

// Unlock releases the lock. Safe to call multiple times or when the
// lock was never acquired.
func (l *NamespaceLock) Unlock() error {
	if !l.locked {
		return nil
	}

	if err := l.flock.Unlock(); err != nil {
		l.locked = false
		return fmt.Errorf("failed to release lock: %w", err)
	}

	l.locked = false
	return nil
}

// Path returns the lock file path.
func (l *NamespaceLock) Path() string {
	return l.path
}
