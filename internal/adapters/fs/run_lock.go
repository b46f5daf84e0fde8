package fs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bft-labs/docship/internal/domain"
)

const (
	runLockDirName   = ".docship.lock"
	runLockOwnerFile = "owner.json"
)

// RunLock is an exclusive, cross-process lock on a ledger directory.
type RunLock struct {
	lockDir string
}

type runLockOwner struct {
	PID       int    `json:"pid"`
	CreatedAt string `json:"created_at"`
	Hostname  string `json:"hostname,omitempty"`
}

// AcquireRunLock takes the lock for dir or returns an error wrapping domain.ErrLocked.
func AcquireRunLock(dir string) (RunLock, error) {
	target := strings.TrimSpace(dir)
	if target == "" {
		return RunLock{}, fmt.Errorf("ledger directory is required")
	}
	if err := os.MkdirAll(target, 0o700); err != nil {
		return RunLock{}, fmt.Errorf("create ledger dir: %w", err)
	}

	lockDir := filepath.Join(target, runLockDirName)
	if err := os.Mkdir(lockDir, 0o700); err != nil {
		if !os.IsExist(err) {
			return RunLock{}, fmt.Errorf("acquire run lock for %s: %w", target, err)
		}
		owner, ok := readRunLockOwner(lockDir)
		if !ok || !owner.stale() {
			return RunLock{}, lockedError(target, lockDir, owner, ok)
		}
		// the previous run died without releasing; take the lock over
		if err := breakStaleLock(lockDir); err != nil {
			return RunLock{}, fmt.Errorf("remove stale run lock %s: %w", lockDir, err)
		}
		if err := os.Mkdir(lockDir, 0o700); err != nil {
			if os.IsExist(err) {
				owner, ok := readRunLockOwner(lockDir)
				return RunLock{}, lockedError(target, lockDir, owner, ok)
			}
			return RunLock{}, fmt.Errorf("acquire run lock for %s: %w", target, err)
		}
	}

	owner := runLockOwner{
		PID:       os.Getpid(),
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Hostname:  hostnameOrUnknown(),
	}
	b, err := json.MarshalIndent(owner, "", "  ")
	if err == nil {
		err = os.WriteFile(filepath.Join(lockDir, runLockOwnerFile), b, 0o600)
	}
	if err != nil {
		_ = os.Remove(lockDir)
		return RunLock{}, fmt.Errorf("write run lock owner for %s: %w", target, err)
	}

	return RunLock{lockDir: lockDir}, nil
}

// Release drops the lock. Releasing a zero RunLock is a no-op.
func (l RunLock) Release() error {
	if l.lockDir == "" {
		return nil
	}
	_ = os.Remove(filepath.Join(l.lockDir, runLockOwnerFile))
	if err := os.Remove(l.lockDir); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("release run lock %s: %w", l.lockDir, err)
	}
	return nil
}

func readRunLockOwner(lockDir string) (runLockOwner, bool) {
	var owner runLockOwner
	b, err := os.ReadFile(filepath.Join(lockDir, runLockOwnerFile))
	if err != nil || json.Unmarshal(b, &owner) != nil || owner.PID <= 0 {
		return runLockOwner{}, false
	}
	return owner, true
}

// stale reports whether the owner was a process on this host that no longer exists.
// Owners on other hosts are never considered stale.
func (o runLockOwner) stale() bool {
	return o.Hostname == hostnameOrUnknown() && !processAlive(o.PID)
}

// breakStaleLock moves the lock aside before deleting it so a half-removed
// lock is never visible under its real name.
func breakStaleLock(lockDir string) error {
	aside := fmt.Sprintf("%s.stale-%d", lockDir, os.Getpid())
	if err := os.Rename(lockDir, aside); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return os.RemoveAll(aside)
}

func lockedError(target, lockDir string, owner runLockOwner, known bool) error {
	if !known {
		return fmt.Errorf("%w: %s (remove %s if no other run is active)", domain.ErrLocked, target, lockDir)
	}
	return fmt.Errorf("%w: %s (pid=%d created_at=%s host=%s; remove %s if that run is gone)",
		domain.ErrLocked, target, owner.PID, owner.CreatedAt, owner.Hostname, lockDir)
}

func hostnameOrUnknown() string {
	host, err := os.Hostname()
	if err != nil || strings.TrimSpace(host) == "" {
		return "unknown"
	}
	return strings.TrimSpace(host)
}
