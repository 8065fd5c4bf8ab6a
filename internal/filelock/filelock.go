// Package filelock provides advisory file locking so that several crmboard
// processes (CLI invocations, an open TUI) can share a board directory.
package filelock

import (
	"fmt"
	"os"
)

const (
	lockFileMode = 0o600
	lockSuffix   = ".lock"
)

// Lock acquires an exclusive advisory lock on the file at path,
// creating it if it does not exist. The returned function releases
// the lock and must be called when the critical section is done.
//
// Only one process can hold the lock at a time; other callers block
// until the lock is available.
func Lock(path string) (unlock func() error, err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, lockFileMode) //nolint:gosec // lock file path from trusted source
	if err != nil {
		return nil, err
	}

	if err := lockFile(f); err != nil {
		_ = f.Close()
		return nil, err
	}

	return func() error {
		unlockErr := unlockFile(f)
		closeErr := f.Close()
		if unlockErr != nil {
			return unlockErr
		}
		return closeErr
	}, nil
}

// With runs fn while holding the lock that guards target. The lock lives in a
// sibling file named target+".lock" so target itself can be replaced freely.
func With(target string, fn func() error) error {
	unlock, err := Lock(target + lockSuffix)
	if err != nil {
		return fmt.Errorf("acquiring lock for %s: %w", target, err)
	}
	fnErr := fn()
	if err := unlock(); err != nil && fnErr == nil {
		return fmt.Errorf("releasing lock for %s: %w", target, err)
	}
	return fnErr
}
