// Package config loads server configuration from the environment.
package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	DatabaseURL string // EXPTRACK_DATABASE_URL (required)
	HTTPAddr    string // EXPTRACK_HTTP_ADDR (default ":8080")
	NATSURL     string // EXPTRACK_NATS_URL (optional, empty = no events)
	AuthToken   string // EXPTRACK_AUTH_TOKEN (optional, empty = auth disabled)

	// GrowthBook integration. Either value empty disables enrichment;
	// the server then serves local records only.
	GrowthbookAPIURL string // GROWTHBOOK_API_URL (default "https://api.growthbook.io/api/v1")
	GrowthbookAPIKey string // GROWTHBOOK_API_KEY (optional, empty = integration disabled)

	// Backup settings
	BackupInterval   time.Duration // EXPTRACK_BACKUP_INTERVAL (default 15m; 0 = disabled)
	BackupS3Bucket   string        // EXPTRACK_BACKUP_S3_BUCKET (enables S3 when set)
	BackupS3Endpoint string        // EXPTRACK_BACKUP_S3_ENDPOINT (custom endpoint for MinIO)
	BackupS3Region   string        // EXPTRACK_BACKUP_S3_REGION (default "us-east-1")
	BackupS3Key      string        // EXPTRACK_BACKUP_S3_KEY (default "exptrack/backup.jsonl")
}

func Load() (*Config, error) {
	c := &Config{
		DatabaseURL:      os.Getenv("EXPTRACK_DATABASE_URL"),
		HTTPAddr:         envOrDefault("EXPTRACK_HTTP_ADDR", ":8080"),
		NATSURL:          os.Getenv("EXPTRACK_NATS_URL"),
		AuthToken:        os.Getenv("EXPTRACK_AUTH_TOKEN"),
		GrowthbookAPIURL: envOrDefault("GROWTHBOOK_API_URL", "https://api.growthbook.io/api/v1"),
		GrowthbookAPIKey: os.Getenv("GROWTHBOOK_API_KEY"),
		BackupS3Bucket:   os.Getenv("EXPTRACK_BACKUP_S3_BUCKET"),
		BackupS3Endpoint: os.Getenv("EXPTRACK_BACKUP_S3_ENDPOINT"),
		BackupS3Region:   envOrDefault("EXPTRACK_BACKUP_S3_REGION", "us-east-1"),
		BackupS3Key:      envOrDefault("EXPTRACK_BACKUP_S3_KEY", "exptrack/backup.jsonl"),
	}
	if c.DatabaseURL == "" {
		return nil, fmt.Errorf("EXPTRACK_DATABASE_URL is required")
	}

	intervalStr := envOrDefault("EXPTRACK_BACKUP_INTERVAL", "15m")
	if intervalStr != "" {
		d, err := time.ParseDuration(intervalStr)
		if err != nil {
			return nil, fmt.Errorf("EXPTRACK_BACKUP_INTERVAL: %w", err)
		}
		c.BackupInterval = d
	}

	return c, nil
}

// GrowthbookConfigured reports whether the GrowthBook credentials are present.
func (c *Config) GrowthbookConfigured() bool {
	return c.GrowthbookAPIURL != "" && c.GrowthbookAPIKey != ""
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
