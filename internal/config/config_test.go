package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// chdirTemp runs the test from an empty directory so a developer's .env
// is not picked up.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd failed: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir failed: %v", err)
	}
	t.Cleanup(func() { os.Chdir(wd) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)
	t.Setenv("SHARIFY_AUTH_JWT_SECRET", "s3cret")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Expected port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Database.Driver != "sqlite" || cfg.Database.Path != "./data/sharify.db" {
		t.Errorf("Unexpected database config: %+v", cfg.Database)
	}
	if cfg.Auth.TokenDuration != 24*time.Hour {
		t.Errorf("Expected 24h token duration, got %v", cfg.Auth.TokenDuration)
	}
	if cfg.OCR.PollInterval != 2*time.Second || cfg.OCR.MaxPollAttempts != 10 {
		t.Errorf("Unexpected poll settings: %+v", cfg.OCR)
	}
	if cfg.IngestionEnabled() {
		t.Error("Expected ingestion disabled without ocr.api_url")
	}
	if cfg.Server.SessionTTL != 2*time.Hour || cfg.Server.SessionSweepInterval != time.Minute {
		t.Errorf("Unexpected session expiry: %+v", cfg.Server)
	}

	rates, err := cfg.Rates()
	if err != nil {
		t.Fatalf("Rates failed: %v", err)
	}
	if rates.Tax.String() != "0.08" || rates.Tip.String() != "0.18" {
		t.Errorf("Unexpected rates: tax=%s tip=%s", rates.Tax, rates.Tip)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := chdirTemp(t)

	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  port: 9090
ocr:
  api_url: http://ocr.local
  poll_interval: 500ms
split:
  tax_rate: "0.1"
auth:
  jwt_secret: from-file
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	t.Setenv("SHARIFY_AUTH_JWT_SECRET", "from-env")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Auth.JWTSecret != "from-env" {
		t.Errorf("Expected env to override file, got %q", cfg.Auth.JWTSecret)
	}
	if !cfg.IngestionEnabled() || cfg.OCR.PollInterval != 500*time.Millisecond {
		t.Errorf("Unexpected OCR config: %+v", cfg.OCR)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Expected log level debug, got %q", cfg.Log.Level)
	}
	rates, _ := cfg.Rates()
	if rates.Tax.String() != "0.1" {
		t.Errorf("Expected tax 0.1, got %s", rates.Tax)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := chdirTemp(t)
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("SHARIFY_AUTH_JWT_SECRET=dotenv\n"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	// Registered so the variable godotenv sets is restored afterwards.
	t.Setenv("SHARIFY_AUTH_JWT_SECRET", "")
	os.Unsetenv("SHARIFY_AUTH_JWT_SECRET")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Auth.JWTSecret != "dotenv" {
		t.Errorf("Expected secret from .env, got %q", cfg.Auth.JWTSecret)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr error
	}{
		{
			name:    "missing jwt secret",
			env:     map[string]string{},
			wantErr: ErrMissingJWTSecret,
		},
		{
			name: "postgres without url",
			env: map[string]string{
				"SHARIFY_AUTH_JWT_SECRET": "x",
				"SHARIFY_DATABASE_DRIVER": "postgres",
			},
		},
		{
			name: "unknown driver",
			env: map[string]string{
				"SHARIFY_AUTH_JWT_SECRET": "x",
				"SHARIFY_DATABASE_DRIVER": "mysql",
			},
		},
		{
			name: "negative tax rate",
			env: map[string]string{
				"SHARIFY_AUTH_JWT_SECRET": "x",
				"SHARIFY_SPLIT_TAX_RATE":  "-0.08",
			},
		},
		{
			name: "negative session ttl",
			env: map[string]string{
				"SHARIFY_AUTH_JWT_SECRET":    "x",
				"SHARIFY_SERVER_SESSION_TTL": "-1h",
			},
		},
		{
			name: "unparseable tip rate",
			env: map[string]string{
				"SHARIFY_AUTH_JWT_SECRET": "x",
				"SHARIFY_SPLIT_TIP_RATE":  "lots",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdirTemp(t)
			t.Setenv("SHARIFY_AUTH_JWT_SECRET", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load("")
			if err == nil {
				t.Fatal("Expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}
