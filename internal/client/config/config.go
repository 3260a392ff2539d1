// Package config assembles runtime settings for the ArchePal field client.
//
// Sources are applied in order, later ones overriding earlier ones:
// built-in defaults, a JSON file (-c/-config), ARCHEPAL_* environment
// variables, and finally command-line flags.
package config

import "time"

// Config holds runtime settings for the ArchePal field client.
type Config struct {
	// ServerBaseURL is the base URL of the managed document store.
	ServerBaseURL string `env:"ARCHEPAL_SERVER_BASE_URL"`
	// APIKey authenticates this client to the document store.
	APIKey string `env:"ARCHEPAL_API_KEY"`
	// UserID namespaces uploaded attachments in object storage.
	UserID string `env:"ARCHEPAL_USER_ID"`

	// DatabasePath is the SQLite file backing the offline subsystem.
	DatabasePath string `env:"ARCHEPAL_DATABASE_PATH"`
	// AttachmentsDir is where queued photos are persisted until synced.
	AttachmentsDir string `env:"ARCHEPAL_ATTACHMENTS_DIR"`

	// OnlineCheckInterval is how often the client probes connectivity.
	OnlineCheckInterval time.Duration `env:"ARCHEPAL_ONLINE_CHECK_INTERVAL"`

	// Object storage (S3-compatible; MinIO when self-hosted).
	S3BaseEndpoint string `env:"ARCHEPAL_S3_BASE_ENDPOINT"`
	S3Region       string `env:"ARCHEPAL_S3_REGION"`
	S3Bucket       string `env:"ARCHEPAL_S3_BUCKET"`
	S3RootUser     string `env:"ARCHEPAL_S3_ROOT_USER"`
	S3RootPassword string `env:"ARCHEPAL_S3_ROOT_PASSWORD"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:8090"
	c.UserID = "field-user"
	c.DatabasePath = "archepal.db"
	c.AttachmentsDir = "attachments"
	c.OnlineCheckInterval = 3 * time.Second
	c.S3BaseEndpoint = "http://127.0.0.1:9000"
	c.S3Region = "us-east-1"
	c.S3Bucket = "archepal-images"
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON, environment, and command-line flags, in that order.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
