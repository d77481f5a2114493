package config

import (
	"encoding/base64"
	"testing"
)

func setDriveEnv(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("STORAGE_BACKEND", "drive")
	t.Setenv("GOOGLE_DRIVE_ROOT_FOLDER_ID", "root-folder")
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_JSON", base64.StdEncoding.EncodeToString([]byte(`{"type":"service_account"}`)))
}

func TestLoadDriveBackend(t *testing.T) {
	setDriveEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.StorageBackend != BackendDrive {
		t.Errorf("backend = %q", cfg.StorageBackend)
	}
	if string(cfg.ServiceAccountJSON) != `{"type":"service_account"}` {
		t.Errorf("service account json = %q", cfg.ServiceAccountJSON)
	}
	if cfg.UploadWorkers != 4 {
		t.Errorf("workers default = %d", cfg.UploadWorkers)
	}
	if cfg.PollTimeoutSeconds != 30 {
		t.Errorf("poll timeout default = %d", cfg.PollTimeoutSeconds)
	}
}

func TestLoadS3Backend(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("STORAGE_BACKEND", "s3")
	t.Setenv("S3_BUCKET", "inventory-photos")
	t.Setenv("S3_ROOT_PREFIX", "inventario/")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.S3Bucket != "inventory-photos" {
		t.Errorf("bucket = %q", cfg.S3Bucket)
	}
	if cfg.S3RootPrefix != "inventario/" {
		t.Errorf("prefix = %q", cfg.S3RootPrefix)
	}
}

func TestLoadMissingRequiredVars(t *testing.T) {
	tests := []struct {
		name  string
		unset string
	}{
		{"missing token", "BOT_TOKEN"},
		{"missing root folder", "GOOGLE_DRIVE_ROOT_FOLDER_ID"},
		{"missing service account", "GOOGLE_SERVICE_ACCOUNT_JSON"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setDriveEnv(t)
			t.Setenv(tt.unset, "")
			if _, err := Load(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLoadBadServiceAccountEncoding(t *testing.T) {
	setDriveEnv(t)
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_JSON", "not base64!!!")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid base64")
	}
}

func TestLoadUnknownBackend(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("STORAGE_BACKEND", "ftp")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestLoadWorkerFloor(t *testing.T) {
	setDriveEnv(t)
	t.Setenv("UPLOAD_WORKERS", "0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.UploadWorkers != 1 {
		t.Errorf("workers = %d, want floor of 1", cfg.UploadWorkers)
	}
}
