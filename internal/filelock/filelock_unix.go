//go:build !windows

package filelock

import (
	"os"
	"syscall"
)

// lockFile blocks until an exclusive flock is held on f.
func lockFile(f *os.File) error {
	return syscall.Flock(int(f.Fd()), syscall.LOCK_EX)
}

func unlockFile(f *os.File) error {
	return syscall.Flock(int(f.Fd()), syscall.LOCK_UN)
}
