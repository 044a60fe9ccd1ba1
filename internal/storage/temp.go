package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// TempFiles materializes uploaded streams as files in a local directory.
// The caller owns every returned path and must release it with Cleanup.
type TempFiles struct {
	dir string
}

// NewTempFiles creates a TempFiles rooted at dir.
// If dir is empty, a "rehab" directory under os.TempDir() is used.
// The directory is created if it doesn't exist.
func NewTempFiles(dir string) (*TempFiles, error) {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "rehab")
	}

	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create temp directory: %w", err)
	}

	return &TempFiles{dir: dir}, nil
}

// Dir returns the directory temporary files are written to.
func (t *TempFiles) Dir() string {
	return t.dir
}

// Materialize writes data to a new file named name inside the temp directory
// and returns its path. The file must not already exist. A partially written
// file is removed before the error is returned.
func (t *TempFiles) Materialize(ctx context.Context, name string, data io.Reader) (string, error) {
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("context cancelled: %w", ctx.Err())
	default:
	}

	path := filepath.Join(t.dir, filepath.Base(name))

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600) // #nosec G304 - name is reduced to its base
	if err != nil {
		return "", &TempFileError{Path: path, Err: err}
	}

	if _, err := io.Copy(f, data); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", &TempFileError{Path: path, Err: err}
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", &TempFileError{Path: path, Err: err}
	}

	return path, nil
}

// Cleanup removes the specified temporary files.
// Missing files are ignored. It continues past failures and returns the first error.
// Cleanup runs to completion even when ctx is already cancelled.
func (t *TempFiles) Cleanup(_ context.Context, paths []string) error {
	var firstErr error
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			if firstErr == nil {
				firstErr = &TempFileError{Path: p, Err: err}
			}
		}
	}
	return firstErr
}
