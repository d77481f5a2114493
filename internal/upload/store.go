// Package upload implements the finalize pipeline: it deterministically
// names every collected photo, resolves the per-point-of-sale remote
// folder, transfers the photo bytes to the asset store, and aggregates
// per-photo outcomes without aborting on individual failures.
package upload

import (
	"context"
	"errors"
	"fmt"
)

// AssetStore is the capability contract the pipeline expects from an
// already-authenticated hierarchical storage backend.
//
// ListFolder returns "" with a nil error when no matching folder exists.
type AssetStore interface {
	// ListFolder looks up a non-trashed folder with the exact name under
	// the given parent.
	ListFolder(ctx context.Context, name, parentID string) (string, error)

	// CreateFolder creates a folder under the given parent and returns its id.
	CreateFolder(ctx context.Context, name, parentID string) (string, error)

	// CreateFile writes a binary file under the given parent.
	CreateFile(ctx context.Context, name, parentID string, data []byte, mimeType string) (string, error)
}

// PhotoFetcher retrieves the bytes behind a chat-transport photo handle.
// The fetch is a remote call and may fail; the pipeline records such
// failures per photo.
type PhotoFetcher interface {
	FetchPhoto(ctx context.Context, fileID string) ([]byte, error)
}

// AuthError marks the asset store as unusable: missing or rejected
// credentials. Unlike a transient transfer failure it aborts the whole
// finalize with a single diagnostic, since no folder or transfer context
// exists to retry within.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("asset store authentication failed: %v", e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// IsAuthError reports whether err is fatal for the whole batch.
func IsAuthError(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}
