package fs

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/docship/internal/domain"
)

func TestAcquireRunLock_BlocksConcurrentAcquire(t *testing.T) {
	dir := t.TempDir()

	lock, err := AcquireRunLock(dir)
	require.NoError(t, err)

	_, err = AcquireRunLock(dir)
	assert.ErrorIs(t, err, domain.ErrLocked)

	require.NoError(t, lock.Release())

	lock2, err := AcquireRunLock(dir)
	require.NoError(t, err)
	require.NoError(t, lock2.Release())
}

func TestRunLock_ReleaseZeroValue(t *testing.T) {
	assert.NoError(t, RunLock{}.Release())
}

func TestAcquireRunLock_RequiresDir(t *testing.T) {
	_, err := AcquireRunLock("  ")
	assert.Error(t, err)
}

func plantRunLock(t *testing.T, dir string, owner runLockOwner) {
	t.Helper()
	lockDir := filepath.Join(dir, runLockDirName)
	require.NoError(t, os.Mkdir(lockDir, 0o700))
	b, err := json.Marshal(owner)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(lockDir, runLockOwnerFile), b, 0o600))
}

// exitedPID returns the pid of a child that has already been reaped.
func exitedPID(t *testing.T) int {
	t.Helper()
	cmd := exec.Command("true")
	if err := cmd.Run(); err != nil {
		t.Skipf("cannot start helper process: %v", err)
	}
	return cmd.Process.Pid
}

func TestAcquireRunLock_TakesOverLockOfDeadProcess(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("process probing is unix only")
	}
	dir := t.TempDir()
	plantRunLock(t, dir, runLockOwner{PID: exitedPID(t), CreatedAt: "2024-01-01T00:00:00Z", Hostname: hostnameOrUnknown()})

	lock, err := AcquireRunLock(dir)
	require.NoError(t, err)

	owner, ok := readRunLockOwner(filepath.Join(dir, runLockDirName))
	require.True(t, ok)
	assert.Equal(t, os.Getpid(), owner.PID)
	require.NoError(t, lock.Release())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no stale lock leftovers")
}

func TestAcquireRunLock_KeepsLockOfLiveProcess(t *testing.T) {
	dir := t.TempDir()
	plantRunLock(t, dir, runLockOwner{PID: os.Getpid(), CreatedAt: "2024-01-01T00:00:00Z", Hostname: hostnameOrUnknown()})

	_, err := AcquireRunLock(dir)
	require.ErrorIs(t, err, domain.ErrLocked)
	assert.Contains(t, err.Error(), "remove "+filepath.Join(dir, runLockDirName))
}

func TestAcquireRunLock_KeepsLockOfOtherHost(t *testing.T) {
	dir := t.TempDir()
	plantRunLock(t, dir, runLockOwner{PID: exitedPID(t), CreatedAt: "2024-01-01T00:00:00Z", Hostname: "elsewhere.invalid"})

	_, err := AcquireRunLock(dir)
	assert.ErrorIs(t, err, domain.ErrLocked)
}

func TestAcquireRunLock_UnreadableOwnerStaysLocked(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, runLockDirName), 0o700))

	_, err := AcquireRunLock(dir)
	require.ErrorIs(t, err, domain.ErrLocked)
	assert.Contains(t, err.Error(), "if no other run is active")
}
