// Package storage provides temporary file handling and object storage access.
// It defines the ObjectStore interface (port) for hexagonal architecture and
// implementations for S3-compatible stores and local disk.
package storage

import (
	"context"
	"errors"
	"fmt"
)

// ObjectStore defines bucket-scoped object operations against a remote store.
// ACL operations read or replace the full permission set of an object; there
// are no merge semantics, so callers must read-modify-write.
type ObjectStore interface {
	// PutObject uploads the local file at localPath to bucket/objectPath,
	// overwriting any existing object. It blocks until the store acknowledges the write.
	PutObject(ctx context.Context, bucket, objectPath, localPath string) error

	// GetObjectACL returns the current access control list of an object.
	GetObjectACL(ctx context.Context, bucket, objectPath string) (*ACL, error)

	// SetObjectACL replaces the access control list of an object.
	SetObjectACL(ctx context.Context, bucket, objectPath string, acl *ACL) error

	// PublicURL returns the URL under which a public-read object is served.
	PublicURL(bucket, objectPath string) string
}

// ErrObjectNotFound is returned by LocalStore when an object does not exist.
var ErrObjectNotFound = errors.New("object not found")

// StorageError describes a failure reported by the object store.
// Code and Message carry the provider's error code and message when available.
type StorageError struct {
	Op      string
	Bucket  string
	Key     string
	Code    string
	Message string
	Err     error
}

func (e *StorageError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("storage %s %s/%s: %s: %s", e.Op, e.Bucket, e.Key, e.Code, e.Message)
	}
	return fmt.Sprintf("storage %s %s/%s: %v", e.Op, e.Bucket, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// TempFileError describes a failure writing or removing a local temporary file.
type TempFileError struct {
	Path string
	Err  error
}

func (e *TempFileError) Error() string {
	return fmt.Sprintf("temp file %s: %v", e.Path, e.Err)
}

func (e *TempFileError) Unwrap() error {
	return e.Err
}
