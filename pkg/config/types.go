package config

import "time"

// Config represents the complete application configuration
type Config struct {
	Environment  string          `mapstructure:"environment"`
	Server       ServerConfig    `mapstructure:"server"`
	Database     DatabaseConfig  `mapstructure:"database"`
	Store        StoreConfig     `mapstructure:"store"`
	Audio        AudioConfig     `mapstructure:"audio"`
	Analyzer     AnalyzerConfig  `mapstructure:"analyzer"`
	Recorder     RecorderConfig  `mapstructure:"recorder"`
	Auth         AuthConfig      `mapstructure:"auth"`
	RateLimiting RateLimitConfig `mapstructure:"rate_limiting"`
	Security     SecurityConfig  `mapstructure:"security"`
	Logging      LoggingConfig   `mapstructure:"logging"`
	Waveform     WaveformConfig  `mapstructure:"waveform"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxHeaderBytes  int           `mapstructure:"max_header_bytes"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes"`
}

// DatabaseConfig contains database settings
type DatabaseConfig struct {
	Path              string `mapstructure:"path"`
	EnableWAL         bool   `mapstructure:"enable_wal"`
	EnableForeignKeys bool   `mapstructure:"enable_foreign_keys"`
	Verbose           bool   `mapstructure:"verbose"`
}

// StoreConfig bounds the persisted key-value records.
// QuotaBytes is the total size budget across all keys; zero disables the check.
type StoreConfig struct {
	QuotaBytes int64 `mapstructure:"quota_bytes"`
}

// AudioConfig selects where clip audio payloads live
type AudioConfig struct {
	Backend string      `mapstructure:"backend"`
	MinIO   MinIOConfig `mapstructure:"minio"`
}

// MinIOConfig contains object storage settings for the minio audio backend
type MinIOConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

// AnalyzerConfig contains generative audio API settings
type AnalyzerConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// RecorderConfig contains microphone capture settings
type RecorderConfig struct {
	FFmpegPath    string        `mapstructure:"ffmpeg_path"`
	InputFormat   string        `mapstructure:"input_format"`
	InputDevice   string        `mapstructure:"input_device"`
	ChunkInterval time.Duration `mapstructure:"chunk_interval"`
	FrameInterval time.Duration `mapstructure:"frame_interval"`
}

// AuthConfig contains bearer token settings
type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

// RateLimitConfig contains rate limiting settings
type RateLimitConfig struct {
	Enabled      bool    `mapstructure:"enabled"`
	RequestsPerS float64 `mapstructure:"requests_per_second"`
	Burst        int     `mapstructure:"burst"`
	AnalyzeRPS   float64 `mapstructure:"analyze_requests_per_second"`
	AnalyzeBurst int     `mapstructure:"analyze_burst"`
}

// SecurityConfig contains security settings
type SecurityConfig struct {
	EnableCORS  bool     `mapstructure:"enable_cors"`
	CORSOrigins []string `mapstructure:"cors_origins"`
	CORSMethods []string `mapstructure:"cors_methods"`
	CORSHeaders []string `mapstructure:"cors_headers"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// WaveformConfig contains waveform peak extraction settings
type WaveformConfig struct {
	FFmpegPath  string `mapstructure:"ffmpeg_path"`
	FFprobePath string `mapstructure:"ffprobe_path"`
	Resolution  int    `mapstructure:"resolution"`
}
