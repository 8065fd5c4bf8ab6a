//go:build windows

package filelock

import (
	"errors"
	"os"
	"time"

	"golang.org/x/sys/windows"
)

const (
	lockfileExclusiveLock   = 0x00000002
	lockfileFailImmediately = 0x00000001
	lockRetryInterval       = time.Millisecond
	lockedBytes             = 1
)

// lockFile polls LockFileEx in fail-immediately mode. A blocking LockFileEx
// would pin the OS thread and starve other goroutines.
func lockFile(f *os.File) error {
	for {
		err := windows.LockFileEx(
			windows.Handle(f.Fd()),
			lockfileExclusiveLock|lockfileFailImmediately,
			0, lockedBytes, 0,
			new(windows.Overlapped),
		)
		if err == nil {
			return nil
		}
		if !errors.Is(err, windows.ERROR_LOCK_VIOLATION) {
			return err
		}
		time.Sleep(lockRetryInterval)
	}
}

func unlockFile(f *os.File) error {
	return windows.UnlockFileEx(windows.Handle(f.Fd()), 0, lockedBytes, 0, new(windows.Overlapped))
}
