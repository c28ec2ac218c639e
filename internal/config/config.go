package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v10"
)

// Config holds the environment driven configuration for openclawctl.
// Deployment-document settings (models, schedules, sandbox policy) live in
// the deploy file; see Deploy.
type Config struct {
	// Service Configuration
	ServiceName string `env:"SERVICE_NAME" envDefault:"openclawctl"`
	LogLevel    string `env:"OPENCLAW_LOG_LEVEL" envDefault:"info"`

	// Filesystem layout
	DataDir    string `env:"OPENCLAW_DATA_DIR" envDefault:"/var/lib/openclaw"`
	DeployFile string `env:"OPENCLAW_DEPLOY_FILE" envDefault:"/etc/openclaw/deploy.yaml"`
	UnitDir    string `env:"OPENCLAW_UNIT_DIR" envDefault:"/etc/systemd/system"`

	// Rendered model document, read by the openclaw process at startup.
	// Empty means <DataDir>/models.json.
	ModelConfigPath string `env:"OPENCLAW_MODEL_CONFIG"`

	// Remote object store (S3-compatible) for backup archives.
	StoreBucket      string `env:"OPENCLAW_STORE_BUCKET"`
	StoreAccessKeyID string `env:"OPENCLAW_STORE_ACCESS_KEY_ID"`
	StoreSecretKey   string `env:"OPENCLAW_STORE_SECRET_ACCESS_KEY"`
	StoreEndpoint    string `env:"OPENCLAW_STORE_ENDPOINT"`
	StoreRegion      string `env:"OPENCLAW_STORE_REGION"`
	// Provider hint used only to pick compatibility flags: r2, s3, minio, other.
	StoreProvider string `env:"OPENCLAW_STORE_PROVIDER" envDefault:"s3"`
}

// Load parses environment variables into Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}

	cfg.StoreBucket = strings.TrimSpace(cfg.StoreBucket)
	cfg.StoreAccessKeyID = strings.TrimSpace(cfg.StoreAccessKeyID)
	cfg.StoreSecretKey = strings.TrimSpace(cfg.StoreSecretKey)
	cfg.StoreEndpoint = strings.TrimSpace(cfg.StoreEndpoint)
	cfg.StoreProvider = strings.ToLower(strings.TrimSpace(cfg.StoreProvider))

	switch cfg.StoreProvider {
	case "", "r2", "s3", "minio", "other":
	default:
		return nil, fmt.Errorf("OPENCLAW_STORE_PROVIDER: unknown provider %q (want r2, s3, minio or other)", cfg.StoreProvider)
	}

	return cfg, nil
}

// RequireStore reports a configuration error if any credential needed to
// reach the remote object store is missing. Backup and restore call this
// before touching the network; render/status do not need the store at all.
func (c *Config) RequireStore() error {
	switch {
	case c.StoreBucket == "":
		return fmt.Errorf("OPENCLAW_STORE_BUCKET is required for backup and restore")
	case c.StoreAccessKeyID == "":
		return fmt.Errorf("OPENCLAW_STORE_ACCESS_KEY_ID is required for backup and restore")
	case c.StoreSecretKey == "":
		return fmt.Errorf("OPENCLAW_STORE_SECRET_ACCESS_KEY is required for backup and restore")
	case c.StoreEndpoint == "":
		return fmt.Errorf("OPENCLAW_STORE_ENDPOINT is required for backup and restore")
	}
	return nil
}

// ModelDocumentPath returns the path the rendered model document is written to.
func (c *Config) ModelDocumentPath() string {
	if c.ModelConfigPath != "" {
		return c.ModelConfigPath
	}
	return filepath.Join(c.DataDir, "models.json")
}
