package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mockObjectStore implements ObjectStore for testing.
type mockObjectStore struct {
	mock.Mock
}

func (m *mockObjectStore) PutObject(ctx context.Context, bucket, objectPath, localPath string) error {
	args := m.Called(ctx, bucket, objectPath, localPath)
	return args.Error(0)
}

func (m *mockObjectStore) GetObjectACL(ctx context.Context, bucket, objectPath string) (*ACL, error) {
	args := m.Called(ctx, bucket, objectPath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ACL), args.Error(1)
}

func (m *mockObjectStore) SetObjectACL(ctx context.Context, bucket, objectPath string, acl *ACL) error {
	args := m.Called(ctx, bucket, objectPath, acl)
	return args.Error(0)
}

func (m *mockObjectStore) PublicURL(bucket, objectPath string) string {
	args := m.Called(bucket, objectPath)
	return args.String(0)
}

func ownerACL() *ACL {
	return &ACL{
		Owner: Owner{ID: "owner-id", DisplayName: "owner"},
		Grants: []Grant{{
			Grantee:    Grantee{Type: GranteeCanonicalUser, ID: "owner-id", DisplayName: "owner"},
			Permission: PermissionFullControl,
		}},
	}
}

func TestACL_Grant(t *testing.T) {
	acl := ownerACL()

	assert.True(t, acl.Grant(AllUsers, PermissionRead))
	assert.True(t, acl.HasGrant(AllUsers, PermissionRead))
	assert.Len(t, acl.Grants, 2)

	// Same grantee, same permission: no change.
	assert.False(t, acl.Grant(Grantee{Type: GranteeGroup, URI: AllUsersURI, DisplayName: "everyone"}, PermissionRead))
	assert.Len(t, acl.Grants, 2)

	// Same grantee, different permission is a separate grant.
	assert.True(t, acl.Grant(AllUsers, PermissionReadACP))
	assert.Len(t, acl.Grants, 3)
}

func TestACL_Clone(t *testing.T) {
	acl := ownerACL()
	clone := acl.Clone()
	clone.Grant(AllUsers, PermissionRead)

	assert.Len(t, acl.Grants, 1, "mutating the clone must not affect the original")
	assert.Len(t, clone.Grants, 2)
}

func TestMakePublic(t *testing.T) {
	ctx := context.Background()

	t.Run("adds all-users read grant and writes it back", func(t *testing.T) {
		store := &mockObjectStore{}
		store.On("GetObjectACL", ctx, "rehab", "video/x.mp4").Return(ownerACL(), nil)
		store.On("SetObjectACL", ctx, "rehab", "video/x.mp4", mock.MatchedBy(func(acl *ACL) bool {
			return acl.HasGrant(AllUsers, PermissionRead) &&
				acl.HasGrant(Grantee{Type: GranteeCanonicalUser, ID: "owner-id"}, PermissionFullControl) &&
				acl.Owner.ID == "owner-id"
		})).Return(nil)

		require.NoError(t, MakePublic(ctx, store, "rehab", "video/x.mp4"))
		store.AssertExpectations(t)
	})

	t.Run("skips write when already public", func(t *testing.T) {
		public := ownerACL()
		public.Grant(AllUsers, PermissionRead)

		store := &mockObjectStore{}
		store.On("GetObjectACL", ctx, "rehab", "json/x.json").Return(public, nil)

		require.NoError(t, MakePublic(ctx, store, "rehab", "json/x.json"))
		store.AssertNotCalled(t, "SetObjectACL", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("returns read error", func(t *testing.T) {
		storeErr := &StorageError{Op: "get-acl", Bucket: "rehab", Key: "k", Code: "AccessDenied", Message: "Access Denied"}
		store := &mockObjectStore{}
		store.On("GetObjectACL", ctx, "rehab", "k").Return(nil, storeErr)

		err := MakePublic(ctx, store, "rehab", "k")
		var se *StorageError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, "AccessDenied", se.Code)
	})

	t.Run("returns rejected write", func(t *testing.T) {
		storeErr := &StorageError{Op: "put-acl", Bucket: "rehab", Key: "k", Code: "AccessControlListNotSupported", Message: "The bucket does not allow ACLs"}
		store := &mockObjectStore{}
		store.On("GetObjectACL", ctx, "rehab", "k").Return(ownerACL(), nil)
		store.On("SetObjectACL", ctx, "rehab", "k", mock.Anything).Return(storeErr)

		err := MakePublic(ctx, store, "rehab", "k")
		assert.ErrorIs(t, err, storeErr)
	})
}

func TestMakePublic_Idempotent(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalStore(t.TempDir(), "https://objects.example.com")
	require.NoError(t, err)

	src := writeFile(t, "payload")
	require.NoError(t, store.PutObject(ctx, "rehab", "video/a.mp4", src))

	require.NoError(t, MakePublic(ctx, store, "rehab", "video/a.mp4"))
	once, err := store.GetObjectACL(ctx, "rehab", "video/a.mp4")
	require.NoError(t, err)

	require.NoError(t, MakePublic(ctx, store, "rehab", "video/a.mp4"))
	twice, err := store.GetObjectACL(ctx, "rehab", "video/a.mp4")
	require.NoError(t, err)

	assert.Equal(t, once, twice)
	assert.True(t, twice.HasGrant(AllUsers, PermissionRead))
}
