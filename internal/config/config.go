package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds every runtime setting of the API server. Values come from
// built-in defaults, then an optional TOML file, then environment variables.
type Config struct {
	ServerAddr string `toml:"server_addr"`
	GinMode    string `toml:"gin_mode"`
	LogLevel   string `toml:"log_level"`

	DBDriver   string `toml:"db_driver"` // "sqlite", "postgres" or "mysql"
	DBPath     string `toml:"db_path"`   // only used for sqlite
	DBHost     string `toml:"db_host"`
	DBPort     string `toml:"db_port"`
	DBUser     string `toml:"db_user"`
	DBPassword string `toml:"db_password"`
	DBName     string `toml:"db_name"`

	SessionExpiryDays int      `toml:"session_expiry_days"`
	MinPasswordLength int      `toml:"min_password_length"`
	RelationTypes     []string `toml:"relation_types"`

	PhotoStorage      string `toml:"photo_storage"` // "memory", "filesystem" or "s3"
	UploadDir         string `toml:"upload_dir"`
	PhotoMaxDimension int    `toml:"photo_max_dimension"`
	PhotoMaxPixels    int64  `toml:"photo_max_pixels"`
	MaxUploadBytes    int64  `toml:"max_upload_bytes"`

	S3Bucket    string `toml:"s3_bucket"`
	S3Region    string `toml:"s3_region"`
	S3Endpoint  string `toml:"s3_endpoint"`
	S3AccessKey string `toml:"s3_access_key"`
	S3SecretKey string `toml:"s3_secret_key"`

	FrontendDir string `toml:"frontend_dir"`
}

// DefaultRelationTypes is the relation vocabulary used when none is configured.
var DefaultRelationTypes = []string{"father", "mother", "brother", "sister", "husband", "wife"}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ServerAddr:        ":8080",
		GinMode:           "debug",
		LogLevel:          "info",
		DBDriver:          "sqlite",
		DBPath:            "data/familytree.db",
		DBHost:            "localhost",
		DBPort:            "5432",
		DBUser:            "familytree",
		DBPassword:        "familytree",
		DBName:            "familytree",
		SessionExpiryDays: 7,
		MinPasswordLength: 6,
		RelationTypes:     append([]string(nil), DefaultRelationTypes...),
		PhotoStorage:      "filesystem",
		UploadDir:         "uploads",
		PhotoMaxDimension: 512,
		PhotoMaxPixels:    24_000_000,
		MaxUploadBytes:    10 << 20,
		S3Region:          "us-east-1",
	}
}

// Load builds the configuration. When path is non-empty the TOML file is
// decoded over the defaults; environment variables always win.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.ServerAddr = getEnv("SERVER_ADDR", c.ServerAddr)
	c.GinMode = getEnv("GIN_MODE", c.GinMode)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)

	c.DBDriver = getEnv("DB_DRIVER", c.DBDriver)
	c.DBPath = getEnv("DB_PATH", getEnv("SQLITE_DB_PATH", c.DBPath))
	c.DBHost = getEnv("DB_HOST", c.DBHost)
	c.DBPort = getEnv("DB_PORT", c.DBPort)
	c.DBUser = getEnv("DB_USER", c.DBUser)
	c.DBPassword = getEnv("DB_PASSWORD", c.DBPassword)
	c.DBName = getEnv("DB_NAME", c.DBName)

	var err error
	if c.SessionExpiryDays, err = getEnvInt("SESSION_EXPIRY_DAYS", c.SessionExpiryDays); err != nil {
		return err
	}
	if c.MinPasswordLength, err = getEnvInt("MIN_PASSWORD_LENGTH", c.MinPasswordLength); err != nil {
		return err
	}
	if raw := os.Getenv("RELATION_TYPES"); raw != "" {
		c.RelationTypes = splitList(raw)
	}

	c.PhotoStorage = getEnv("PHOTO_STORAGE", c.PhotoStorage)
	c.UploadDir = getEnv("UPLOAD_DIR", c.UploadDir)
	if c.PhotoMaxDimension, err = getEnvInt("PHOTO_MAX_DIMENSION", c.PhotoMaxDimension); err != nil {
		return err
	}
	maxPixels, err := getEnvInt("PHOTO_MAX_PIXELS", int(c.PhotoMaxPixels))
	if err != nil {
		return err
	}
	c.PhotoMaxPixels = int64(maxPixels)
	maxUpload, err := getEnvInt("MAX_UPLOAD_BYTES", int(c.MaxUploadBytes))
	if err != nil {
		return err
	}
	c.MaxUploadBytes = int64(maxUpload)

	c.S3Bucket = getEnv("S3_BUCKET", c.S3Bucket)
	c.S3Region = getEnv("S3_REGION", c.S3Region)
	c.S3Endpoint = getEnv("S3_ENDPOINT", c.S3Endpoint)
	c.S3AccessKey = getEnv("S3_ACCESS_KEY", c.S3AccessKey)
	c.S3SecretKey = getEnv("S3_SECRET_KEY", c.S3SecretKey)

	c.FrontendDir = getEnv("FRONTEND_DIR", c.FrontendDir)
	return nil
}

// Validate reports the first inconsistent setting.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "sqlite", "postgres", "mysql":
	default:
		return fmt.Errorf("unknown db_driver: %q", c.DBDriver)
	}
	if c.SessionExpiryDays <= 0 {
		return fmt.Errorf("session_expiry_days must be positive, got %d", c.SessionExpiryDays)
	}
	if c.MinPasswordLength <= 0 {
		return fmt.Errorf("min_password_length must be positive, got %d", c.MinPasswordLength)
	}
	if c.PhotoMaxDimension <= 0 {
		return fmt.Errorf("photo_max_dimension must be positive, got %d", c.PhotoMaxDimension)
	}
	if c.PhotoMaxPixels <= 0 {
		return fmt.Errorf("photo_max_pixels must be positive, got %d", c.PhotoMaxPixels)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("max_upload_bytes must be positive, got %d", c.MaxUploadBytes)
	}

	normalized := make([]string, 0, len(c.RelationTypes))
	for _, t := range c.RelationTypes {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			normalized = append(normalized, t)
		}
	}
	if len(normalized) == 0 {
		return fmt.Errorf("relation_types must not be empty")
	}
	c.RelationTypes = normalized
	return nil
}

// SessionTTL is the absolute lifetime of a login session.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionExpiryDays) * 24 * time.Hour
}

// IsRelease reports whether gin runs in release mode.
func (c *Config) IsRelease() bool {
	return c.GinMode == "release"
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
