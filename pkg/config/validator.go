package config

import (
	"errors"
	"fmt"
)

func (c *Config) Validate() error {
	var errs []error

	// App validation
	if c.App.Name == "" {
		errs = append(errs, errors.New("app.name is required"))
	}

	validModes := map[string]bool{"development": true, "production": true, "test": true}
	if !validModes[c.App.Mode] {
		errs = append(errs, fmt.Errorf("app.mode must be one of: development, production, test"))
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.App.LogLevel] {
		errs = append(errs, fmt.Errorf("app.log_level must be one of: debug, info, warn, error"))
	}

	// Artifact validation
	switch c.Artifacts.Source {
	case SourceFile:
		if c.Artifacts.Dir == "" {
			errs = append(errs, errors.New("artifacts.dir is required for the file source"))
		}
		if c.Artifacts.ScalerFile == "" || c.Artifacts.ClassifierFile == "" {
			errs = append(errs, errors.New("artifacts.scaler_file and artifacts.classifier_file are required"))
		}
	case SourcePostgres:
		errs = append(errs, c.Database.validate()...)
	case SourceRedis:
		if c.Redis.Addr == "" {
			errs = append(errs, errors.New("redis.addr is required for the redis source"))
		}
	default:
		errs = append(errs, fmt.Errorf("artifacts.source must be one of: %s, %s, %s", SourceFile, SourcePostgres, SourceRedis))
	}
	if c.Artifacts.RetryAttempts < 1 {
		errs = append(errs, errors.New("artifacts.retry_attempts must be at least 1"))
	}
	if c.Artifacts.LoadTimeout <= 0 {
		errs = append(errs, errors.New("artifacts.load_timeout must be positive"))
	}

	// Inference validation
	if c.Inference.DefaultConfidence < 0 || c.Inference.DefaultConfidence > 100 {
		errs = append(errs, errors.New("inference.default_confidence must be between 0 and 100"))
	}

	// API validation
	if c.API.Port <= 0 || c.API.Port > 65535 {
		errs = append(errs, errors.New("api.port must be between 1 and 65535"))
	}
	if c.API.MaxBodyBytes < 0 {
		errs = append(errs, errors.New("api.max_body_bytes must not be negative"))
	}

	// Metrics validation
	if c.Metrics.Port < 0 || c.Metrics.Port > 65535 {
		errs = append(errs, errors.New("metrics.port must be between 0 and 65535"))
	}
	if c.Metrics.Port != 0 && c.Metrics.Port == c.API.Port {
		errs = append(errs, errors.New("metrics.port must differ from api.port"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %w", errors.Join(errs...))
	}

	return nil
}

func (d DatabaseConfig) validate() []error {
	var errs []error
	if d.Host == "" {
		errs = append(errs, errors.New("database.host is required"))
	}
	if d.Port <= 0 || d.Port > 65535 {
		errs = append(errs, errors.New("database.port must be between 1 and 65535"))
	}
	if d.Name == "" {
		errs = append(errs, errors.New("database.name is required"))
	}
	if d.MaxConnections <= 0 {
		errs = append(errs, errors.New("database.max_connections must be positive"))
	}
	return errs
}
