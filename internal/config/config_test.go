package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("MODE", "")
	t.Setenv("DB_DRIVER", "")
	cfg := FromEnv()
	if cfg.Mode != ModeOffline || cfg.DBDriver != "sqlite" || cfg.BlobDriver != "fs" {
		t.Fatalf("defaults = %+v", cfg)
	}
	if cfg.UploadMaxAge != time.Hour {
		t.Fatalf("upload max age = %v", cfg.UploadMaxAge)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults do not validate: %v", err)
	}
}

func TestValidate_MinioNeedsEndpoint(t *testing.T) {
	t.Setenv("BLOB_DRIVER", "minio")
	t.Setenv("MINIO_ENDPOINT", "")
	if err := FromEnv().Validate(); err == nil {
		t.Fatal("expected minio endpoint to be required")
	}
	t.Setenv("MINIO_ENDPOINT", "localhost:9000")
	if err := FromEnv().Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidate_TracingNeedsCollector(t *testing.T) {
	t.Setenv("TRACING_ENABLED", "true")
	t.Setenv("TRACING_COLLECTOR_ENDPOINT", "")
	if err := FromEnv().Validate(); err == nil {
		t.Fatal("expected collector endpoint to be required")
	}
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	env := filepath.Join(dir, "test.env")
	if err := os.WriteFile(env, []byte("HTTP_ADDR=:9999\nCORS_ORIGINS_OFFLINE=http://a, http://b\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	// godotenv does not override variables that are already set.
	os.Unsetenv("HTTP_ADDR")
	os.Unsetenv("CORS_ORIGINS_OFFLINE")
	t.Cleanup(func() {
		os.Unsetenv("HTTP_ADDR")
		os.Unsetenv("CORS_ORIGINS_OFFLINE")
	})

	cfg, err := Load(env)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":9999" {
		t.Fatalf("addr = %q", cfg.HTTPAddr)
	}
	if got := cfg.CORSOrigins(); len(got) != 2 || got[1] != "http://b" {
		t.Fatalf("origins = %v", got)
	}
}

func TestLoad_MissingFileIsFine(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Fatalf("Load: %v", err)
	}
}
