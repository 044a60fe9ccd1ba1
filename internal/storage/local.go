package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
)

// Compile-time check that LocalStore implements ObjectStore.
var _ ObjectStore = (*LocalStore)(nil)

// localOwner owns every object written through LocalStore.
var localOwner = Owner{ID: "local", DisplayName: "local"}

// LocalStore implements ObjectStore on local disk.
// Objects live under <root>/<bucket>/<objectPath>; ACLs are kept in memory.
// It is meant for development when no S3 credentials are configured; the
// baseURL should point at a server that serves root, such as the API's
// /objects route.
type LocalStore struct {
	root    string
	baseURL string

	mu   sync.RWMutex
	acls map[string]*ACL
}

// NewLocalStore creates a LocalStore rooted at root.
// Public URLs are formed as <baseURL>/<bucket>/<objectPath>.
// The directory is created if it doesn't exist.
func NewLocalStore(root, baseURL string) (*LocalStore, error) {
	if root == "" {
		root = filepath.Join(os.TempDir(), "rehab-objects")
	}

	if err := os.MkdirAll(root, 0750); err != nil {
		return nil, fmt.Errorf("create object directory: %w", err)
	}

	return &LocalStore{
		root:    root,
		baseURL: strings.TrimRight(baseURL, "/"),
		acls:    make(map[string]*ACL),
	}, nil
}

// Root returns the directory objects are stored under.
func (s *LocalStore) Root() string {
	return s.root
}

// PutObject copies the local file into the store, overwriting any existing object.
// A newly created object starts with an owner FULL_CONTROL ACL.
func (s *LocalStore) PutObject(ctx context.Context, bucket, objectPath, localPath string) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("context cancelled: %w", ctx.Err())
	default:
	}

	dst, err := s.objectFile(bucket, objectPath)
	if err != nil {
		return &StorageError{Op: "put", Bucket: bucket, Key: objectPath, Err: err}
	}

	if err := copyFile(localPath, dst); err != nil {
		return &StorageError{Op: "put", Bucket: bucket, Key: objectPath, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	key := bucket + "/" + objectPath
	if _, ok := s.acls[key]; !ok {
		s.acls[key] = &ACL{
			Owner: localOwner,
			Grants: []Grant{{
				Grantee:    Grantee{Type: GranteeCanonicalUser, ID: localOwner.ID, DisplayName: localOwner.DisplayName},
				Permission: PermissionFullControl,
			}},
		}
	}
	return nil
}

// GetObjectACL returns a copy of the object's ACL.
func (s *LocalStore) GetObjectACL(_ context.Context, bucket, objectPath string) (*ACL, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acl, ok := s.acls[bucket+"/"+objectPath]
	if !ok {
		return nil, &StorageError{Op: "get-acl", Bucket: bucket, Key: objectPath, Code: "NoSuchKey", Message: "the specified key does not exist", Err: ErrObjectNotFound}
	}
	return acl.Clone(), nil
}

// SetObjectACL replaces the object's ACL.
func (s *LocalStore) SetObjectACL(_ context.Context, bucket, objectPath string, acl *ACL) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := bucket + "/" + objectPath
	if _, ok := s.acls[key]; !ok {
		return &StorageError{Op: "put-acl", Bucket: bucket, Key: objectPath, Code: "NoSuchKey", Message: "the specified key does not exist", Err: ErrObjectNotFound}
	}
	s.acls[key] = acl.Clone()
	return nil
}

// PublicURL returns <baseURL>/<bucket>/<objectPath>.
func (s *LocalStore) PublicURL(bucket, objectPath string) string {
	return publicURL(s.baseURL, bucket, objectPath)
}

// objectFile resolves the on-disk location of an object and creates its parent directory.
func (s *LocalStore) objectFile(bucket, objectPath string) (string, error) {
	clean := path.Clean("/" + objectPath)
	if bucket == "" || clean == "/" {
		return "", fmt.Errorf("invalid object path %q", objectPath)
	}
	dst := filepath.Join(s.root, bucket, filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(dst), 0750); err != nil {
		return "", fmt.Errorf("create object directory: %w", err)
	}
	return dst, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src) // #nosec G304 - path is provided by trusted caller
	if err != nil {
		return fmt.Errorf("open source file: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst) // #nosec G304 - path is built from a cleaned object key
	if err != nil {
		return fmt.Errorf("create object file: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("write object file: %w", err)
	}
	return out.Close()
}

// publicURL joins endpoint, bucket and object path, escaping each path segment.
func publicURL(endpoint, bucket, objectPath string) string {
	segments := strings.Split(objectPath, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return endpoint + "/" + bucket + "/" + strings.Join(segments, "/")
}
