// Package s3store implements the asset store contract on top of S3.
// S3 has no real folders, so a folder id is a key prefix ending in "/",
// materialized as a zero-byte marker object (the S3 console convention).
// File ids are object keys.
package s3store

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/rs/zerolog/log"

	"github.com/fpang/inventory-drive-bot/internal/upload"
)

// Store is an AssetStore backed by a single S3 bucket.
type Store struct {
	client *s3.Client
	bucket string
}

// New creates a Store over the given bucket.
func New(client *s3.Client, bucket string) *Store {
	return &Store{client: client, bucket: bucket}
}

// ListFolder checks for the folder marker object under the parent prefix.
// Returns "" when the folder does not exist.
func (s *Store) ListFolder(ctx context.Context, name, parentID string) (string, error) {
	marker := folderKey(name, parentID)
	resp, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(s.bucket),
		Prefix:  aws.String(marker),
		MaxKeys: aws.Int32(1),
	})
	if err != nil {
		return "", classify("list folder", err)
	}
	if resp.KeyCount == nil || *resp.KeyCount == 0 {
		return "", nil
	}
	return marker, nil
}

// CreateFolder writes the zero-byte marker object for the folder.
func (s *Store) CreateFolder(ctx context.Context, name, parentID string) (string, error) {
	marker := folderKey(name, parentID)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(marker),
		Body:   bytes.NewReader(nil),
	})
	if err != nil {
		return "", classify("create folder", err)
	}
	log.Debug().Str("bucket", s.bucket).Str("prefix", marker).Msg("Folder marker created")
	return marker, nil
}

// CreateFile uploads a file under the folder prefix.
func (s *Store) CreateFile(ctx context.Context, name, parentID string, data []byte, mimeType string) (string, error) {
	key := parentID + name
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(mimeType),
	})
	if err != nil {
		return "", classify("create file", err)
	}
	log.Debug().Str("bucket", s.bucket).Str("key", key).Int("bytes", len(data)).Msg("Object uploaded")
	return key, nil
}

// folderKey builds the marker key for a folder under a parent prefix.
// The root parent is "" (or any prefix already ending in "/").
func folderKey(name, parentID string) string {
	return parentID + name + "/"
}

// classify promotes credential rejections to the fatal auth kind.
func classify(op string, err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch", "ExpiredToken":
			return &upload.AuthError{Err: fmt.Errorf("%s: %w", op, err)}
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
