package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/gabriel-vasile/mimetype"
)

// Compile-time check that S3Store implements ObjectStore.
var _ ObjectStore = (*S3Store)(nil)

// S3Config holds the configuration for an S3-compatible object store.
type S3Config struct {
	Region          string
	Endpoint        string // Base URL of the store, e.g. https://kr.object.ncloudstorage.com
	AccessKeyID     string // Optional: static access key ID
	SecretAccessKey string // Optional: static secret access key
}

// S3Store implements ObjectStore against an S3-compatible service.
// Requests use path-style addressing so that public URLs follow
// <endpoint>/<bucket>/<objectPath>.
type S3Store struct {
	client   *s3.Client
	endpoint string
}

// NewS3Store creates a new S3Store.
func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("s3 endpoint is required")
	}

	var configOpts []func(*config.LoadOptions) error
	configOpts = append(configOpts, config.WithRegion(cfg.Region))

	// Use static credentials if provided
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		configOpts = append(configOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, configOpts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
		// S3-compatible stores such as NCP reject the flexible checksum headers
		// the SDK sends by default; only send them where the API requires one.
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		o.ResponseChecksumValidation = aws.ResponseChecksumValidationWhenRequired
	})

	return &S3Store{
		client:   client,
		endpoint: endpoint,
	}, nil
}

// PutObject uploads the local file to bucket/objectPath.
func (s *S3Store) PutObject(ctx context.Context, bucket, objectPath, localPath string) error {
	f, err := os.Open(localPath) // #nosec G304 - path is provided by trusted caller
	if err != nil {
		return &StorageError{Op: "put", Bucket: bucket, Key: objectPath, Err: fmt.Errorf("open local file: %w", err)}
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return &StorageError{Op: "put", Bucket: bucket, Key: objectPath, Err: fmt.Errorf("stat local file: %w", err)}
	}

	contentType := "application/octet-stream"
	if mt, err := mimetype.DetectFile(localPath); err == nil {
		contentType = mt.String()
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(objectPath),
		Body:          f,
		ContentLength: aws.Int64(info.Size()),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return newStorageError("put", bucket, objectPath, err)
	}
	return nil
}

// GetObjectACL fetches the object's ACL.
func (s *S3Store) GetObjectACL(ctx context.Context, bucket, objectPath string) (*ACL, error) {
	out, err := s.client.GetObjectAcl(ctx, &s3.GetObjectAclInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(objectPath),
	})
	if err != nil {
		return nil, newStorageError("get-acl", bucket, objectPath, err)
	}

	acl := &ACL{Grants: make([]Grant, 0, len(out.Grants))}
	if out.Owner != nil {
		acl.Owner = Owner{
			ID:          aws.ToString(out.Owner.ID),
			DisplayName: aws.ToString(out.Owner.DisplayName),
		}
	}
	for _, g := range out.Grants {
		if g.Grantee == nil {
			continue
		}
		acl.Grants = append(acl.Grants, Grant{
			Grantee: Grantee{
				Type:        GranteeType(g.Grantee.Type),
				ID:          aws.ToString(g.Grantee.ID),
				DisplayName: aws.ToString(g.Grantee.DisplayName),
				Email:       aws.ToString(g.Grantee.EmailAddress),
				URI:         aws.ToString(g.Grantee.URI),
			},
			Permission: Permission(g.Permission),
		})
	}
	return acl, nil
}

// SetObjectACL replaces the object's ACL with acl.
func (s *S3Store) SetObjectACL(ctx context.Context, bucket, objectPath string, acl *ACL) error {
	policy := &types.AccessControlPolicy{
		Grants: make([]types.Grant, 0, len(acl.Grants)),
	}
	if acl.Owner.ID != "" {
		policy.Owner = &types.Owner{
			ID:          aws.String(acl.Owner.ID),
			DisplayName: optionalString(acl.Owner.DisplayName),
		}
	}
	for _, g := range acl.Grants {
		policy.Grants = append(policy.Grants, types.Grant{
			Grantee: &types.Grantee{
				Type:         types.Type(g.Grantee.Type),
				ID:           optionalString(g.Grantee.ID),
				DisplayName:  optionalString(g.Grantee.DisplayName),
				EmailAddress: optionalString(g.Grantee.Email),
				URI:          optionalString(g.Grantee.URI),
			},
			Permission: types.Permission(g.Permission),
		})
	}

	_, err := s.client.PutObjectAcl(ctx, &s3.PutObjectAclInput{
		Bucket:              aws.String(bucket),
		Key:                 aws.String(objectPath),
		AccessControlPolicy: policy,
	})
	if err != nil {
		return newStorageError("put-acl", bucket, objectPath, err)
	}
	return nil
}

// PublicURL returns <endpoint>/<bucket>/<objectPath>.
func (s *S3Store) PublicURL(bucket, objectPath string) string {
	return publicURL(s.endpoint, bucket, objectPath)
}

// newStorageError wraps an SDK error, lifting the provider code and message.
func newStorageError(op, bucket, key string, err error) *StorageError {
	se := &StorageError{Op: op, Bucket: bucket, Key: key, Err: err}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		se.Code = apiErr.ErrorCode()
		se.Message = apiErr.ErrorMessage()
	}
	return se
}

func optionalString(v string) *string {
	if v == "" {
		return nil
	}
	return aws.String(v)
}
