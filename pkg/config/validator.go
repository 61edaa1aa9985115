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

	// API validation
	if c.API.Port <= 0 || c.API.Port > 65535 {
		errs = append(errs, errors.New("api.port must be between 1 and 65535"))
	}
	if c.API.RateLimit <= 0 {
		errs = append(errs, errors.New("api.rate_limit must be positive"))
	}
	if c.API.MaxBodyBytes <= 0 {
		errs = append(errs, errors.New("api.max_body_bytes must be positive"))
	}

	// Dataset validation
	if c.Dataset.Path == "" {
		errs = append(errs, errors.New("dataset.path is required"))
	}
	if c.Dataset.Site == "" {
		errs = append(errs, errors.New("dataset.site is required"))
	}
	if c.Dataset.TargetColumn == "" {
		errs = append(errs, errors.New("dataset.target_column is required"))
	}
	if c.Dataset.TimestampColumn == "" {
		errs = append(errs, errors.New("dataset.timestamp_column is required"))
	}
	siteListed := false
	for _, s := range c.Dataset.SiteColumns {
		if s == c.Dataset.Site {
			siteListed = true
			break
		}
	}
	if !siteListed {
		errs = append(errs, fmt.Errorf("dataset.site %q must appear in dataset.site_columns", c.Dataset.Site))
	}

	// Predictor validation
	if c.Predictor.Endpoint == "" {
		errs = append(errs, errors.New("predictor.endpoint is required"))
	}
	if c.Predictor.Timeout <= 0 {
		errs = append(errs, errors.New("predictor.timeout must be positive"))
	}

	// LLM validation. The API key is deliberately not required here: its
	// absence is a request-time configuration error on /api/chat, not a
	// startup failure, so the rest of the demo stays usable without it.
	if c.LLM.Endpoint == "" {
		errs = append(errs, errors.New("llm.endpoint is required"))
	}
	if c.LLM.Model == "" {
		errs = append(errs, errors.New("llm.model is required"))
	}

	// Events validation
	if c.Events.BufferSize <= 0 {
		errs = append(errs, errors.New("events.buffer_size must be positive"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
