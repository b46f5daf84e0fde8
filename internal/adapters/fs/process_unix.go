//go:build unix

package fs

import (
	"errors"
	"syscall"
)

// processAlive sends signal 0 to pid. EPERM means the process exists
// but belongs to another user.
func processAlive(pid int) bool {
	err := syscall.Kill(pid, 0)
	return err == nil || errors.Is(err, syscall.EPERM)
}
