package config

import (
	"fmt"
	"time"
)

type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Artifacts ArtifactsConfig `mapstructure:"artifacts"`
	Inference InferenceConfig `mapstructure:"inference"`
	API       APIConfig       `mapstructure:"api"`
	WebSocket WebSocketConfig `mapstructure:"websocket"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Events    EventsConfig    `mapstructure:"events"`
}

type AppConfig struct {
	Name            string        `mapstructure:"name"`
	Mode            string        `mapstructure:"mode"`
	LogLevel        string        `mapstructure:"log_level"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host             string        `mapstructure:"host"`
	Port             int           `mapstructure:"port"`
	Name             string        `mapstructure:"name"`
	User             string        `mapstructure:"user"`
	Password         string        `mapstructure:"password"`
	MaxConnections   int           `mapstructure:"max_connections"`
	SSLMode          string        `mapstructure:"ssl_mode"`
	ConnMaxLifetime  time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime  time.Duration `mapstructure:"conn_max_idle_time"`
	PingTimeout      time.Duration `mapstructure:"ping_timeout"`
	MigrationTimeout time.Duration `mapstructure:"migration_timeout"`
}

func (d DatabaseConfig) DSN() string {
	sslMode := d.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, sslMode,
	)
}

type RedisConfig struct {
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// Artifact sources.
const (
	SourceFile     = "file"
	SourcePostgres = "postgres"
	SourceRedis    = "redis"
)

type ArtifactsConfig struct {
	Source         string               `mapstructure:"source"`
	Dir            string               `mapstructure:"dir"`
	ScalerFile     string               `mapstructure:"scaler_file"`
	ClassifierFile string               `mapstructure:"classifier_file"`
	Version        string               `mapstructure:"version"`
	LoadTimeout    time.Duration        `mapstructure:"load_timeout"`
	RetryAttempts  int                  `mapstructure:"retry_attempts"`
	RetryDelay     time.Duration        `mapstructure:"retry_delay"`
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`
}

type CircuitBreakerConfig struct {
	MaxFailures int           `mapstructure:"max_failures"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type InferenceConfig struct {
	DefaultConfidence float64 `mapstructure:"default_confidence"`
	EnforceBounds     bool    `mapstructure:"enforce_bounds"`
}

type APIConfig struct {
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	RateLimit      int           `mapstructure:"rate_limit"`
	MaxBodyBytes   int64         `mapstructure:"max_body_bytes"`
	SwaggerEnabled bool          `mapstructure:"swagger_enabled"`
	CORS           CORSConfig    `mapstructure:"cors"`
}

type WebSocketConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	MaxConnections  int           `mapstructure:"max_connections"`
	PingInterval    time.Duration `mapstructure:"ping_interval"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	PongTimeout     time.Duration `mapstructure:"pong_timeout"`
	MaxMessageSize  int64         `mapstructure:"max_message_size"`
	ReadBufferSize  int           `mapstructure:"read_buffer_size"`
	WriteBufferSize int           `mapstructure:"write_buffer_size"`
	BroadcastBuffer int           `mapstructure:"broadcast_buffer"`
	ClientBuffer    int           `mapstructure:"client_buffer"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// Port serves /metrics on a separate listener; 0 mounts it on the API.
	Port int `mapstructure:"port"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
}

type EventsConfig struct {
	BufferSize int  `mapstructure:"buffer_size"`
	LogEvents  bool `mapstructure:"log_events"`
}
