package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads configuration from configPath (or the default search paths),
// a .env file in the working directory, and CARDIORISK_* environment
// variables, in increasing order of precedence.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}

	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/cardiorisk")
	}

	v.SetEnvPrefix("CARDIORISK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "cardio-risk")
	v.SetDefault("app.mode", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.shutdown_timeout", "15s")

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "cardiorisk")
	v.SetDefault("database.user", "cardiorisk")
	v.SetDefault("database.password", "")
	v.SetDefault("database.max_connections", 5)
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.ping_timeout", "10s")
	v.SetDefault("database.migration_timeout", "60s")

	// Redis defaults
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", "cardiorisk")

	// Artifact defaults
	v.SetDefault("artifacts.source", SourceFile)
	v.SetDefault("artifacts.dir", "./model")
	v.SetDefault("artifacts.scaler_file", "scaler.json")
	v.SetDefault("artifacts.classifier_file", "classifier.json")
	v.SetDefault("artifacts.load_timeout", "30s")
	v.SetDefault("artifacts.retry_attempts", 3)
	v.SetDefault("artifacts.retry_delay", "1s")
	v.SetDefault("artifacts.circuit_breaker.max_failures", 5)
	v.SetDefault("artifacts.circuit_breaker.timeout", "30s")

	// Inference defaults
	v.SetDefault("inference.default_confidence", 85.0)
	v.SetDefault("inference.enforce_bounds", true)

	// API defaults
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.read_timeout", "15s")
	v.SetDefault("api.write_timeout", "15s")
	v.SetDefault("api.idle_timeout", "60s")
	v.SetDefault("api.rate_limit", 100)
	v.SetDefault("api.max_body_bytes", 64*1024)
	v.SetDefault("api.swagger_enabled", true)
	v.SetDefault("api.cors.allowed_origins", []string{"*"})
	v.SetDefault("api.cors.allowed_methods", []string{"GET", "POST", "OPTIONS"})
	v.SetDefault("api.cors.allowed_headers", []string{"Origin", "Content-Type", "Accept", "X-Trace-ID"})
	v.SetDefault("api.cors.exposed_headers", []string{"X-Trace-ID"})

	// WebSocket defaults
	v.SetDefault("websocket.enabled", true)
	v.SetDefault("websocket.max_connections", 100)
	v.SetDefault("websocket.ping_interval", "30s")
	v.SetDefault("websocket.write_timeout", "10s")
	v.SetDefault("websocket.pong_timeout", "60s")
	v.SetDefault("websocket.max_message_size", 4096)
	v.SetDefault("websocket.read_buffer_size", 1024)
	v.SetDefault("websocket.write_buffer_size", 1024)
	v.SetDefault("websocket.broadcast_buffer", 256)
	v.SetDefault("websocket.client_buffer", 64)

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 0)

	// Events defaults
	v.SetDefault("events.buffer_size", 256)
	v.SetDefault("events.log_events", true)
}
