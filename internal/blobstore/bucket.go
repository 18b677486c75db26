package blobstore

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"

	apperrors "github.com/custodia-labs/custodia/internal/errors"

	// Register bucket drivers
	_ "gocloud.dev/blob/azureblob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/memblob"
	_ "gocloud.dev/blob/s3blob"
)

// BucketStore is a content-addressed store on top of a gocloud.dev bucket. The blob id
// is the unpadded base64url SHA-256 of the stored bytes.
//
// Supported URLs: mem://, file:///path, s3://bucket, gs://bucket, azblob://container.
type BucketStore struct {
	bucket *blob.Bucket
}

// OpenBucketStore opens the bucket at bucketURL.
func OpenBucketStore(ctx context.Context, bucketURL string) (*BucketStore, error) {
	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open bucket: %w", err)
	}
	return &BucketStore{bucket: bucket}, nil
}

// NewBucketStore wraps an already opened bucket.
func NewBucketStore(bucket *blob.Bucket) *BucketStore {
	return &BucketStore{bucket: bucket}
}

// Put writes data under its content hash. Existing blobs are not rewritten.
func (s *BucketStore) Put(ctx context.Context, data []byte) (string, error) {
	sum := sha256.Sum256(data)
	key := base64.RawURLEncoding.EncodeToString(sum[:])

	exists, err := s.bucket.Exists(ctx, key)
	if err != nil {
		return "", apperrors.Unavailable(err, "bucket store")
	}
	if exists {
		return key, nil
	}

	opts := &blob.WriterOptions{ContentType: "application/octet-stream"}
	if err := s.bucket.WriteAll(ctx, key, data, opts); err != nil {
		return "", apperrors.Unavailable(err, "bucket store")
	}
	return key, nil
}

// Get reads the blob stored under blobID.
func (s *BucketStore) Get(ctx context.Context, blobID string) ([]byte, error) {
	data, err := s.bucket.ReadAll(ctx, blobID)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, ErrBlobNotFound
		}
		return nil, apperrors.Unavailable(err, "bucket read")
	}
	return data, nil
}

// Close releases the bucket.
func (s *BucketStore) Close() error {
	return s.bucket.Close()
}
