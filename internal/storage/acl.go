package storage

import (
	"context"
)

// Permission is an access right granted on an object.
type Permission string

const (
	PermissionFullControl Permission = "FULL_CONTROL"
	PermissionRead        Permission = "READ"
	PermissionWrite       Permission = "WRITE"
	PermissionReadACP     Permission = "READ_ACP"
	PermissionWriteACP    Permission = "WRITE_ACP"
)

// GranteeType identifies how a grantee is addressed.
type GranteeType string

const (
	GranteeCanonicalUser GranteeType = "CanonicalUser"
	GranteeGroup         GranteeType = "Group"
	GranteeEmail         GranteeType = "AmazonCustomerByEmail"
)

// AllUsersURI is the group URI that represents anonymous access.
const AllUsersURI = "http://acs.amazonaws.com/groups/global/AllUsers"

// AllUsers is the grantee for anonymous (public) access.
var AllUsers = Grantee{Type: GranteeGroup, URI: AllUsersURI}

// Grantee is the receiver of a grant.
type Grantee struct {
	Type        GranteeType
	ID          string
	DisplayName string
	Email       string
	URI         string
}

// same reports whether both grantees address the same principal.
// DisplayName is informational and ignored.
func (g Grantee) same(o Grantee) bool {
	return g.Type == o.Type && g.ID == o.ID && g.Email == o.Email && g.URI == o.URI
}

// Grant pairs a grantee with a permission.
type Grant struct {
	Grantee    Grantee
	Permission Permission
}

// Owner is the owner of an object.
type Owner struct {
	ID          string
	DisplayName string
}

// ACL is the full permission set attached to an object.
type ACL struct {
	Owner  Owner
	Grants []Grant
}

// Grant adds a permission for the grantee. It returns false when an identical
// grant already exists, in which case the ACL is left untouched.
func (a *ACL) Grant(grantee Grantee, perm Permission) bool {
	if a.HasGrant(grantee, perm) {
		return false
	}
	a.Grants = append(a.Grants, Grant{Grantee: grantee, Permission: perm})
	return true
}

// HasGrant reports whether the grantee holds the permission.
func (a *ACL) HasGrant(grantee Grantee, perm Permission) bool {
	for _, g := range a.Grants {
		if g.Permission == perm && g.Grantee.same(grantee) {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the ACL.
func (a *ACL) Clone() *ACL {
	grants := make([]Grant, len(a.Grants))
	copy(grants, a.Grants)
	return &ACL{Owner: a.Owner, Grants: grants}
}

// MakePublic grants read permission to all users on an object.
// The ACL is fetched, extended and written back; if the grant is already
// present no write is issued. Concurrent callers on the same object may race.
func MakePublic(ctx context.Context, store ObjectStore, bucket, objectPath string) error {
	acl, err := store.GetObjectACL(ctx, bucket, objectPath)
	if err != nil {
		return err
	}
	if !acl.Grant(AllUsers, PermissionRead) {
		return nil
	}
	return store.SetObjectACL(ctx, bucket, objectPath, acl)
}
