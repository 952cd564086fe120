package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

var (
	once    sync.Once
	initErr error
)

// EnvPrefix is prepended to every environment override, e.g. JAMBOARD_SERVER_PORT.
const EnvPrefix = "JAMBOARD"

// Init initializes the configuration system
// This should be called once at application startup
func Init() error {
	once.Do(func() {
		setDefaults()

		viper.SetEnvPrefix(EnvPrefix)
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		viper.AutomaticEnv()

		configPath := filepath.Clean("./config/settings.yaml")
		viper.SetConfigFile(configPath)

		if err := viper.ReadInConfig(); err != nil {
			// A missing file is fine, defaults and env vars apply
			if !os.IsNotExist(err) {
				initErr = fmt.Errorf("error reading config file %s: %w", configPath, err)
				return
			}
		}

		if err := validate(); err != nil {
			initErr = fmt.Errorf("invalid configuration: %w", err)
		}
	})

	return initErr
}

// GetConfig returns the current configuration as a struct
// Init() must be called before using this
func GetConfig() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &config, nil
}

// GetString returns a string config value
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetDuration returns a time.Duration config value
func GetDuration(key string) time.Duration {
	return viper.GetDuration(key)
}

// IsProduction reports whether the configured environment is production
func IsProduction() bool {
	env := viper.GetString("environment")
	return env == "production" || env == "prod"
}

func validate() error {
	port := viper.GetInt("server.port")
	if port <= 0 || port > 65535 {
		return fmt.Errorf("invalid server port: %d", port)
	}

	backend := viper.GetString("audio.backend")
	if backend != "inline" && backend != "minio" {
		return fmt.Errorf("invalid audio backend: %q (want inline or minio)", backend)
	}

	if viper.GetInt64("store.quota_bytes") < 0 {
		viper.Set("store.quota_bytes", 0)
	}

	if viper.GetInt("waveform.resolution") <= 0 {
		viper.Set("waveform.resolution", 200)
	}

	return validateSecrets()
}

// placeholders are values that must never reach production
var placeholders = []string{
	"YOUR_KEY_HERE",
	"YOUR_SECRET_HERE",
	"YOUR_API_KEY",
	"changeme",
	"CHANGEME",
	"",
}

func isPlaceholder(value string) bool {
	for _, p := range placeholders {
		if value == p {
			return true
		}
	}
	return false
}

// validateSecrets rejects placeholder secrets in production.
// A missing analyzer key is allowed: analysis then degrades to its fallback result.
func validateSecrets() error {
	if isPlaceholder(viper.GetString("auth.jwt_secret")) {
		if IsProduction() {
			return fmt.Errorf("invalid JWT secret: cannot use placeholder values in production")
		}
		log.Warn().Msg("JWT secret is using a placeholder value - this is insecure!")
	}

	if viper.GetString("audio.backend") == "minio" && isPlaceholder(viper.GetString("audio.minio.secret_key")) {
		if IsProduction() {
			return fmt.Errorf("invalid MinIO credentials: cannot use placeholder values in production")
		}
		log.Warn().Msg("MinIO secret key is using a placeholder value")
	}

	if viper.GetString("analyzer.api_key") == "" {
		log.Warn().Msg("analyzer API key is not set, clip analysis will return the fallback result")
	}

	return nil
}

// Validate validates a Config struct (for testing)
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	switch c.Audio.Backend {
	case "inline":
	case "minio":
		if c.Audio.MinIO.Endpoint == "" || c.Audio.MinIO.Bucket == "" {
			return fmt.Errorf("minio audio backend requires endpoint and bucket")
		}
	default:
		return fmt.Errorf("invalid audio backend: %q", c.Audio.Backend)
	}

	if c.Store.QuotaBytes < 0 {
		c.Store.QuotaBytes = 0
	}

	if c.Waveform.Resolution <= 0 {
		c.Waveform.Resolution = 200
	}

	return nil
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("environment", "development")

	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)
	viper.SetDefault("server.shutdown_timeout", 10*time.Second)
	viper.SetDefault("server.max_header_bytes", 1048576)
	viper.SetDefault("server.max_body_bytes", 10485760)

	// Database defaults
	viper.SetDefault("database.path", "./data/jamboard.db")
	viper.SetDefault("database.enable_wal", true)
	viper.SetDefault("database.enable_foreign_keys", true)
	viper.SetDefault("database.verbose", false)

	// Store defaults: browser localStorage budget
	viper.SetDefault("store.quota_bytes", 5*1024*1024)

	// Audio defaults
	viper.SetDefault("audio.backend", "inline")
	viper.SetDefault("audio.minio.endpoint", "localhost:9000")
	viper.SetDefault("audio.minio.access_key", "")
	viper.SetDefault("audio.minio.secret_key", "")
	viper.SetDefault("audio.minio.bucket", "jamboard-audio")
	viper.SetDefault("audio.minio.use_ssl", false)

	// Analyzer defaults
	viper.SetDefault("analyzer.api_key", "")
	viper.SetDefault("analyzer.base_url", "https://generativelanguage.googleapis.com")
	viper.SetDefault("analyzer.model", "gemini-2.0-flash-exp")
	viper.SetDefault("analyzer.timeout", time.Duration(0))

	// Recorder defaults
	viper.SetDefault("recorder.ffmpeg_path", "ffmpeg")
	viper.SetDefault("recorder.input_format", "pulse")
	viper.SetDefault("recorder.input_device", "default")
	viper.SetDefault("recorder.chunk_interval", 100*time.Millisecond)
	viper.SetDefault("recorder.frame_interval", 16*time.Millisecond)

	// Auth defaults
	viper.SetDefault("auth.jwt_secret", "")
	viper.SetDefault("auth.token_ttl", 24*time.Hour)

	// Rate limiting defaults
	viper.SetDefault("rate_limiting.enabled", true)
	viper.SetDefault("rate_limiting.requests_per_second", 20.0)
	viper.SetDefault("rate_limiting.burst", 40)
	viper.SetDefault("rate_limiting.analyze_requests_per_second", 1.0)
	viper.SetDefault("rate_limiting.analyze_burst", 3)

	// Security defaults
	viper.SetDefault("security.enable_cors", true)
	viper.SetDefault("security.cors_origins", []string{"*"})
	viper.SetDefault("security.cors_methods", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})
	viper.SetDefault("security.cors_headers", []string{"Content-Type", "Authorization"})

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.json", false)

	// Waveform defaults
	viper.SetDefault("waveform.ffmpeg_path", "ffmpeg")
	viper.SetDefault("waveform.ffprobe_path", "ffprobe")
	viper.SetDefault("waveform.resolution", 200)
}
