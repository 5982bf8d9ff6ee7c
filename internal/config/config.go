package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Logging   LoggingConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Storage   StorageConfig
	Queue     QueueConfig
	Auth      AuthConfig
	Analyzer  AnalyzerConfig
	Metadata  MetadataConfig
	LLM       LLMConfig
	YouTube   YouTubeConfig
	Tracing   TracingConfig
	Metrics   MetricsConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            int
	Host            string
	Mode            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// LoggingConfig holds logger configuration
type LoggingConfig struct {
	Level  string
	Format string
	Output string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Enabled  bool
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	MaxConns int
	MinConns int
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// StorageConfig holds object storage configuration for exported takes
type StorageConfig struct {
	Enabled         bool
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	Region          string
	UseSSL          bool
	URLExpiry       time.Duration
}

// QueueConfig holds message queue configuration
type QueueConfig struct {
	Enabled  bool
	Host     string
	Port     int
	User     string
	Password string
	Vhost    string
}

// AuthConfig holds token settings
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// AnalyzerConfig holds scene segmentation settings
type AnalyzerConfig struct {
	SceneDuration     int
	UseFixedDuration  bool
	FixedDuration     int
	ThumbnailVariants []string
}

// MetadataConfig holds reference page fetch settings
type MetadataConfig struct {
	Resolver      string // regex, html
	FetchTimeout  time.Duration
	LookupTimeout time.Duration // per YouTube Data API duration lookup
	UserAgent     string
	CacheTTL      time.Duration
	MaxBodyBytes  int64
}

// LLMConfig holds script generation provider settings
type LLMConfig struct {
	Provider          string // "", openai, anthropic
	APIKey            string
	Model             string
	BaseURL           string
	Timeout           time.Duration
	MaxTokens         int
	Temperature       float64
	RequestsPerSecond float64
	Burst             int
}

// YouTubeConfig holds YouTube Data API settings
type YouTubeConfig struct {
	APIKey string
}

// TracingConfig holds Jaeger settings
type TracingConfig struct {
	Enabled     bool
	ServiceName string
	Endpoint    string
}

// MetricsConfig holds Prometheus exporter settings
type MetricsConfig struct {
	Enabled bool
	Port    int
}

// RateLimitConfig holds inbound API rate limiting settings
type RateLimitConfig struct {
	RequestsPerSecond int
	Burst             int
	IdleTTL           time.Duration
	SweepSchedule     string
}

// Load reads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("PARROTKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks values the analyzer cannot run without
func (c *Config) Validate() error {
	if c.Analyzer.SceneDuration <= 0 {
		return fmt.Errorf("analyzer.sceneDuration must be positive, got %d", c.Analyzer.SceneDuration)
	}
	if c.Analyzer.FixedDuration <= 0 {
		return fmt.Errorf("analyzer.fixedDuration must be positive, got %d", c.Analyzer.FixedDuration)
	}
	switch c.Metadata.Resolver {
	case "regex", "html":
	default:
		return fmt.Errorf("unknown metadata.resolver %q", c.Metadata.Resolver)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.readTimeout", "30s")
	v.SetDefault("server.writeTimeout", "60s")
	v.SetDefault("server.shutdownTimeout", "10s")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")

	// Database defaults
	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "parrotkit")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.maxConns", 10)
	v.SetDefault("database.minConns", 2)

	// Redis defaults
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// Storage defaults
	v.SetDefault("storage.enabled", false)
	v.SetDefault("storage.endpoint", "localhost:9000")
	v.SetDefault("storage.accessKeyID", "minioadmin")
	v.SetDefault("storage.secretAccessKey", "minioadmin")
	v.SetDefault("storage.bucketName", "takes")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.useSSL", false)
	v.SetDefault("storage.urlExpiry", "24h")

	// Queue defaults
	v.SetDefault("queue.enabled", false)
	v.SetDefault("queue.host", "localhost")
	v.SetDefault("queue.port", 5672)
	v.SetDefault("queue.user", "guest")
	v.SetDefault("queue.password", "guest")
	v.SetDefault("queue.vhost", "/")

	// Auth defaults
	v.SetDefault("auth.jwtSecret", "fallback-secret")
	v.SetDefault("auth.tokenTTL", "168h")

	// Analyzer defaults
	v.SetDefault("analyzer.sceneDuration", 5)
	v.SetDefault("analyzer.useFixedDuration", true)
	v.SetDefault("analyzer.fixedDuration", 30)
	v.SetDefault("analyzer.thumbnailVariants", []string{
		"maxresdefault", "sddefault", "hqdefault", "mqdefault", "1", "2", "3",
	})

	// Metadata defaults
	v.SetDefault("metadata.resolver", "regex")
	v.SetDefault("metadata.fetchTimeout", "10s")
	v.SetDefault("metadata.lookupTimeout", "5s")
	v.SetDefault("metadata.userAgent",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	v.SetDefault("metadata.cacheTTL", "6h")
	v.SetDefault("metadata.maxBodyBytes", 2*1024*1024) // 2MB

	// LLM defaults
	v.SetDefault("llm.provider", "")
	v.SetDefault("llm.apiKey", "")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.baseURL", "")
	v.SetDefault("llm.timeout", "30s")
	v.SetDefault("llm.maxTokens", 2048)
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.requestsPerSecond", 0)
	v.SetDefault("llm.burst", 1)

	// YouTube defaults
	v.SetDefault("youtube.apiKey", "")

	// Tracing defaults
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.serviceName", "parrotkit-api")
	v.SetDefault("tracing.endpoint", "http://localhost:14268/api/traces")

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9090)

	// Rate limit defaults
	v.SetDefault("rateLimit.requestsPerSecond", 5)
	v.SetDefault("rateLimit.burst", 10)
	v.SetDefault("rateLimit.idleTTL", "30m")
	v.SetDefault("rateLimit.sweepSchedule", "@every 10m")
}
