// Package drive implements the asset store contract on top of the Google
// Drive v3 API using service account credentials. Folders are real Drive
// folders; file names are the deterministic archive names produced by
// the upload pipeline.
package drive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	driveapi "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/fpang/inventory-drive-bot/internal/upload"
)

// folderMIME is the Drive mime type marking a file as a folder.
const folderMIME = "application/vnd.google-apps.folder"

// Client is an AssetStore backed by Google Drive.
type Client struct {
	svc *driveapi.Service
}

// NewClient builds a Drive client from a decoded service account key.
// The drive.file scope limits access to files the bot itself creates.
func NewClient(ctx context.Context, serviceAccountJSON []byte) (*Client, error) {
	svc, err := driveapi.NewService(ctx,
		option.WithCredentialsJSON(serviceAccountJSON),
		option.WithScopes(driveapi.DriveFileScope),
	)
	if err != nil {
		return nil, &upload.AuthError{Err: fmt.Errorf("create drive service: %w", err)}
	}
	return &Client{svc: svc}, nil
}

// ListFolder looks up a non-trashed folder with the exact name under the
// given parent. Returns "" when no such folder exists.
func (c *Client) ListFolder(ctx context.Context, name, parentID string) (string, error) {
	query := fmt.Sprintf("name='%s' and mimeType='%s' and '%s' in parents and trashed=false",
		escapeQuery(name), folderMIME, parentID)

	resp, err := c.svc.Files.List().
		Q(query).
		Spaces("drive").
		Fields("files(id, name)").
		Context(ctx).
		Do()
	if err != nil {
		return "", classify("list folder", err)
	}

	if len(resp.Files) == 0 {
		return "", nil
	}
	return resp.Files[0].Id, nil
}

// CreateFolder creates a folder under the given parent.
func (c *Client) CreateFolder(ctx context.Context, name, parentID string) (string, error) {
	folder, err := c.svc.Files.Create(&driveapi.File{
		Name:     name,
		MimeType: folderMIME,
		Parents:  []string{parentID},
	}).Fields("id").Context(ctx).Do()
	if err != nil {
		return "", classify("create folder", err)
	}
	return folder.Id, nil
}

// CreateFile uploads a binary file under the given parent.
func (c *Client) CreateFile(ctx context.Context, name, parentID string, data []byte, mimeType string) (string, error) {
	file, err := c.svc.Files.Create(&driveapi.File{
		Name:    name,
		Parents: []string{parentID},
	}).
		Media(bytes.NewReader(data), googleapi.ContentType(mimeType)).
		Fields("id, name").
		Context(ctx).
		Do()
	if err != nil {
		return "", classify("create file", err)
	}

	log.Debug().Str("name", name).Str("fileId", file.Id).Msg("Drive file created")
	return file.Id, nil
}

// classify wraps Drive API errors, promoting credential rejections to
// the fatal auth kind. Everything else is transient from the pipeline's
// point of view.
func classify(op string, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && (apiErr.Code == 401 || apiErr.Code == 403) {
		return &upload.AuthError{Err: fmt.Errorf("%s: %w", op, err)}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// escapeQuery escapes single quotes for embedding in a Drive query string.
func escapeQuery(s string) string {
	return strings.ReplaceAll(s, "'", `\'`)
}
