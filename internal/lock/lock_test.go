package lock

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

func TestTryLockAndUnlock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sweep.lock")
	l := NewSweepLock(path)

	if err := l.TryLock(); err != nil {
		t.Fatalf("try lock: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read lock file: %v", err)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid != os.Getpid() {
		t.Fatalf("lock file should contain our pid, got %q", data)
	}

	if err := l.Unlock(); err != nil {
		t.Fatalf("unlock: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("lock file should be removed after unlock: %v", err)
	}
}

func TestSecondHolderIsRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sweep.lock")
	first := NewSweepLock(path)
	second := NewSweepLock(path)

	if err := first.TryLock(); err != nil {
		t.Fatalf("first try lock: %v", err)
	}
	defer first.Unlock()

	if err := second.TryLock(); err == nil {
		second.Unlock()
		t.Fatal("second holder should be rejected while lock is held")
	}
}

func TestUnlockWithoutLockIsNoop(t *testing.T) {
	l := NewSweepLock(filepath.Join(t.TempDir(), "sweep.lock"))
	if err := l.Unlock(); err != nil {
		t.Fatalf("unlock without lock: %v", err)
	}
}
