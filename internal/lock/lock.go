package lock

import (
	"fmt"
	"os"
	"syscall"
)

// SweepLock guards the reminder sweep against overlapping runs from a
// second process on the same host. It implements sweep.Locker. Deployments
// spanning multiple hosts need an external lock instead; the interface is
// the same.
type SweepLock struct {
	path string
	file *os.File
}

func NewSweepLock(path string) *SweepLock {
	return &SweepLock{path: path}
}

func (l *SweepLock) TryLock() error {
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return fmt.Errorf("open lock file: %w", err)
	}

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		f.Close()
		return fmt.Errorf("acquire sweep lock (another sweep may be running): %w", err)
	}

	if err := f.Truncate(0); err != nil {
		releaseAndClose(f)
		return fmt.Errorf("truncate lock file: %w", err)
	}
	if _, err := f.Seek(0, 0); err != nil {
		releaseAndClose(f)
		return fmt.Errorf("seek lock file: %w", err)
	}
	if _, err := fmt.Fprintf(f, "%d\n", os.Getpid()); err != nil {
		releaseAndClose(f)
		return fmt.Errorf("write pid to lock file: %w", err)
	}

	l.file = f
	return nil
}

func (l *SweepLock) Unlock() error {
	if l.file == nil {
		return nil
	}

	if err := syscall.Flock(int(l.file.Fd()), syscall.LOCK_UN); err != nil {
		l.file.Close()
		l.file = nil
		return fmt.Errorf("release sweep lock: %w", err)
	}
	if err := l.file.Close(); err != nil {
		l.file = nil
		return fmt.Errorf("close lock file: %w", err)
	}

	os.Remove(l.path)
	l.file = nil
	return nil
}

func releaseAndClose(f *os.File) {
	syscall.Flock(int(f.Fd()), syscall.LOCK_UN)
	f.Close()
}
