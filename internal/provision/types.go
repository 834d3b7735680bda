package provision

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// Clock abstracts time acquisition and delays for deterministic testing.
type Clock interface {
	Now() time.Time
	Sleep(executionContext context.Context, duration time.Duration) error
}

// SystemClock implements Clock using the system time source.
type SystemClock struct{}

// Now returns the current time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// Sleep waits for the duration to elapse or the context to be cancelled.
func (SystemClock) Sleep(executionContext context.Context, duration time.Duration) error {
	if duration <= 0 {
		return executionContext.Err()
	}
	sleepTimer := time.NewTimer(duration)
	defer sleepTimer.Stop()
	select {
	case <-executionContext.Done():
		return executionContext.Err()
	case <-sleepTimer.C:
		return nil
	}
}

// FileSystem abstracts filesystem access for workspace management.
type FileSystem interface {
	Stat(path string) (fs.FileInfo, error)
	MkdirAll(path string, permissions fs.FileMode) error
	Abs(path string) (string, error)
}

// OSFileSystem implements FileSystem using the operating system primitives.
type OSFileSystem struct{}

// Stat retrieves file metadata.
func (OSFileSystem) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// MkdirAll ensures a directory hierarchy exists with the provided permissions.
func (OSFileSystem) MkdirAll(path string, permissions fs.FileMode) error {
	return os.MkdirAll(path, permissions)
}

// Abs resolves an absolute path.
func (OSFileSystem) Abs(path string) (string, error) {
	return filepath.Abs(path)
}
