package config

import (
	"testing"
	"time"
)

// allEnvVars lists every env var Load reads, cleared between tests.
var allEnvVars = []string{
	"EXPTRACK_DATABASE_URL", "EXPTRACK_HTTP_ADDR", "EXPTRACK_NATS_URL",
	"EXPTRACK_AUTH_TOKEN", "GROWTHBOOK_API_URL", "GROWTHBOOK_API_KEY",
	"EXPTRACK_BACKUP_INTERVAL", "EXPTRACK_BACKUP_S3_BUCKET",
	"EXPTRACK_BACKUP_S3_ENDPOINT", "EXPTRACK_BACKUP_S3_REGION",
	"EXPTRACK_BACKUP_S3_KEY",
}

func clearAllEnv(t *testing.T) {
	t.Helper()
	for _, key := range allEnvVars {
		t.Setenv(key, "")
	}
}

func TestLoad(t *testing.T) {
	for _, tc := range []struct {
		name         string
		env          map[string]string
		wantErr      bool
		wantHTTPAddr string
		wantNATSURL  string
	}{
		{
			name:    "MissingDatabaseURL",
			env:     map[string]string{},
			wantErr: true,
		},
		{
			name:         "Defaults",
			env:          map[string]string{"EXPTRACK_DATABASE_URL": "postgres://localhost/exptrack"},
			wantHTTPAddr: ":8080",
		},
		{
			name: "CustomAddresses",
			env: map[string]string{
				"EXPTRACK_DATABASE_URL": "postgres://db:5432/exptrack",
				"EXPTRACK_HTTP_ADDR":    ":3000",
				"EXPTRACK_NATS_URL":     "nats://localhost:4222",
			},
			wantHTTPAddr: ":3000",
			wantNATSURL:  "nats://localhost:4222",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			clearAllEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			c, err := Load()
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Load returned unexpected error: %v", err)
			}
			if c.HTTPAddr != tc.wantHTTPAddr {
				t.Errorf("HTTPAddr = %q, want %q", c.HTTPAddr, tc.wantHTTPAddr)
			}
			if c.NATSURL != tc.wantNATSURL {
				t.Errorf("NATSURL = %q, want %q", c.NATSURL, tc.wantNATSURL)
			}
		})
	}
}

func TestLoad_GrowthbookConfigured(t *testing.T) {
	clearAllEnv(t)
	t.Setenv("EXPTRACK_DATABASE_URL", "postgres://localhost/exptrack")

	c, err := Load()
	if err != nil {
		t.Fatalf("Load returned unexpected error: %v", err)
	}
	if c.GrowthbookAPIURL != "https://api.growthbook.io/api/v1" {
		t.Errorf("GrowthbookAPIURL = %q, want default", c.GrowthbookAPIURL)
	}
	if c.GrowthbookConfigured() {
		t.Error("expected integration disabled without an API key")
	}

	t.Setenv("GROWTHBOOK_API_KEY", "secret_abc")
	c, err = Load()
	if err != nil {
		t.Fatalf("Load returned unexpected error: %v", err)
	}
	if !c.GrowthbookConfigured() {
		t.Error("expected integration enabled with an API key")
	}
}

func TestLoad_BackupSettings(t *testing.T) {
	clearAllEnv(t)
	t.Setenv("EXPTRACK_DATABASE_URL", "postgres://localhost/exptrack")

	c, err := Load()
	if err != nil {
		t.Fatalf("Load returned unexpected error: %v", err)
	}
	if c.BackupInterval != 15*time.Minute {
		t.Errorf("BackupInterval = %v, want 15m", c.BackupInterval)
	}
	if c.BackupS3Region != "us-east-1" || c.BackupS3Key != "exptrack/backup.jsonl" {
		t.Errorf("got region=%q key=%q", c.BackupS3Region, c.BackupS3Key)
	}

	t.Setenv("EXPTRACK_BACKUP_INTERVAL", "1h")
	t.Setenv("EXPTRACK_BACKUP_S3_BUCKET", "my-bucket")
	c, err = Load()
	if err != nil {
		t.Fatalf("Load returned unexpected error: %v", err)
	}
	if c.BackupInterval != time.Hour || c.BackupS3Bucket != "my-bucket" {
		t.Errorf("got interval=%v bucket=%q", c.BackupInterval, c.BackupS3Bucket)
	}

	t.Setenv("EXPTRACK_BACKUP_INTERVAL", "bogus")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid interval")
	}
}
