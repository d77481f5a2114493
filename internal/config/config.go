// Package config loads the bot configuration from environment variables
// and an optional YAML catalog file.
//
// Required variables mirror the deployment contract of the original bot:
// BOT_TOKEN, and for the Drive backend GOOGLE_DRIVE_ROOT_FOLDER_ID plus
// GOOGLE_SERVICE_ACCOUNT_JSON (base64-encoded service account key). The
// S3 backend instead requires S3_BUCKET and the usual AWS environment.
package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"strconv"
)

// Storage backend selectors for the STORAGE_BACKEND variable.
const (
	BackendDrive = "drive"
	BackendS3    = "s3"
)

// Config holds all process-level configuration.
type Config struct {
	// BotToken is the Telegram Bot API token.
	BotToken string

	// StorageBackend selects the asset store implementation: "drive" or "s3".
	StorageBackend string

	// DriveRootFolderID is the Drive folder under which per-point-of-sale
	// folders are created.
	DriveRootFolderID string

	// ServiceAccountJSON is the decoded Google service account key.
	ServiceAccountJSON []byte

	// S3Bucket is the bucket for the S3 backend. The root "folder" is the
	// empty prefix unless S3_ROOT_PREFIX is set.
	S3Bucket     string
	S3RootPrefix string

	// CatalogPath is an optional YAML file overriding the built-in
	// container/acrylic catalog.
	CatalogPath string

	// UploadWorkers bounds the concurrent transfers during finalize.
	UploadWorkers int

	// PollTimeoutSeconds is the long-poll timeout passed to getUpdates.
	PollTimeoutSeconds int
}

// Load reads configuration from the environment and validates that every
// variable required by the selected backend is present.
func Load() (*Config, error) {
	cfg := &Config{
		BotToken:           os.Getenv("BOT_TOKEN"),
		StorageBackend:     envOrDefault("STORAGE_BACKEND", BackendDrive),
		DriveRootFolderID:  os.Getenv("GOOGLE_DRIVE_ROOT_FOLDER_ID"),
		S3Bucket:           os.Getenv("S3_BUCKET"),
		S3RootPrefix:       os.Getenv("S3_ROOT_PREFIX"),
		CatalogPath:        os.Getenv("CATALOG_PATH"),
		UploadWorkers:      envInt("UPLOAD_WORKERS", 4),
		PollTimeoutSeconds: envInt("POLL_TIMEOUT_SECONDS", 30),
	}

	if cfg.BotToken == "" {
		return nil, fmt.Errorf("BOT_TOKEN is not set")
	}

	switch cfg.StorageBackend {
	case BackendDrive:
		if cfg.DriveRootFolderID == "" {
			return nil, fmt.Errorf("GOOGLE_DRIVE_ROOT_FOLDER_ID is not set")
		}
		encoded := os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON")
		if encoded == "" {
			return nil, fmt.Errorf("GOOGLE_SERVICE_ACCOUNT_JSON is not set")
		}
		decoded, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, fmt.Errorf("decode GOOGLE_SERVICE_ACCOUNT_JSON: %w", err)
		}
		cfg.ServiceAccountJSON = decoded
	case BackendS3:
		if cfg.S3Bucket == "" {
			return nil, fmt.Errorf("S3_BUCKET is not set")
		}
	default:
		return nil, fmt.Errorf("unknown STORAGE_BACKEND %q (want %q or %q)", cfg.StorageBackend, BackendDrive, BackendS3)
	}

	if cfg.UploadWorkers < 1 {
		cfg.UploadWorkers = 1
	}

	return cfg, nil
}

func envOrDefault(name, defaultVal string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return defaultVal
}

func envInt(name string, defaultVal int) int {
	v := os.Getenv(name)
	if v == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return n
}
