package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Images    ImagesConfig
	Catalog   CatalogConfig
	Manifest  ManifestConfig
	DocStore  DocStoreConfig
	Firestore FirestoreConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ImagesConfig describes the product image directory
type ImagesConfig struct {
	Dir             string   `mapstructure:"dir"`
	URLPrefix       string   `mapstructure:"url_prefix"`       // public path images are served under
	ExcludePrefixes []string `mapstructure:"exclude_prefixes"` // non-product images, e.g. banners
}

// CatalogConfig locates the product catalog
type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

// ManifestConfig locates the image manifest
type ManifestConfig struct {
	Path string `mapstructure:"path"`
}

// DocStoreConfig selects the document store catalog imports go to
type DocStoreConfig struct {
	Type       string `mapstructure:"type"` // "sqlite" or "firestore"
	Path       string `mapstructure:"path"`
	Collection string `mapstructure:"collection"`
}

// FirestoreConfig holds Cloud Firestore configuration. With no credentials
// file, Application Default Credentials are used; FIRESTORE_EMULATOR_HOST
// points the client at an emulator.
type FirestoreConfig struct {
	ProjectID       string `mapstructure:"project_id"`
	DatabaseID      string `mapstructure:"database_id"`
	CredentialsFile string `mapstructure:"credentials_file"`
}

// CacheConfig holds report cache configuration
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP     int     `mapstructure:"per_ip"`    // admin API requests per minute per client
	Firestore float64 `mapstructure:"firestore"` // Firestore writes per second
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load loads configuration from .env, environment variables and config files
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile loads configuration like Load, reading the config file at path
// instead of searching the default locations when path is non-empty
func LoadFile(path string) (*Config, error) {
	// .env is optional; values already in the environment win
	_ = godotenv.Load()

	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/pouchpalace/")
	}

	// Environment variable settings
	v.SetEnvPrefix("POUCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Storefront layout defaults
	v.SetDefault("images.dir", "public/images/products")
	v.SetDefault("images.url_prefix", "/images/products/")
	v.SetDefault("images.exclude_prefixes", []string{"banner", "logo", "hero", "placeholder"})
	v.SetDefault("catalog.path", "src/data/products.json")
	v.SetDefault("manifest.path", "src/data/imageManifest.json")

	// Document store defaults
	v.SetDefault("docstore.type", "sqlite")
	v.SetDefault("docstore.path", "data/catalog.db")
	v.SetDefault("docstore.collection", "products")
	v.SetDefault("firestore.project_id", "")
	v.SetDefault("firestore.database_id", "(default)")
	v.SetDefault("firestore.credentials_file", "")

	// Cache defaults
	v.SetDefault("cache.ttl", "5m")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)
	v.SetDefault("ratelimit.firestore", 10)

	v.SetDefault("log.level", "info")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Images.Dir == "" {
		return fmt.Errorf("image directory is required (set POUCH_IMAGES_DIR)")
	}
	if config.Catalog.Path == "" {
		return fmt.Errorf("catalog path is required (set POUCH_CATALOG_PATH)")
	}
	if config.Manifest.Path == "" {
		return fmt.Errorf("manifest path is required (set POUCH_MANIFEST_PATH)")
	}

	switch config.DocStore.Type {
	case "sqlite":
		if config.DocStore.Path == "" {
			return fmt.Errorf("docstore path is required when docstore type is 'sqlite'")
		}
	case "firestore":
		if config.Firestore.ProjectID == "" {
			return fmt.Errorf("Firestore project id is required when docstore type is 'firestore' (set POUCH_FIRESTORE_PROJECT_ID)")
		}
	default:
		return fmt.Errorf("docstore type must be 'sqlite' or 'firestore', got: %s", config.DocStore.Type)
	}

	if config.Cache.TTL < 0 {
		return fmt.Errorf("cache ttl must not be negative, got: %s", config.Cache.TTL)
	}
	if config.RateLimit.PerIP < 0 {
		return fmt.Errorf("ratelimit per_ip must not be negative, got: %d", config.RateLimit.PerIP)
	}

	switch strings.ToLower(config.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log level must be one of debug, info, warn, error, got: %s", config.Log.Level)
	}

	return nil
}
