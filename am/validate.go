package am

import (
	"strings"

	"github.com/teranos/cuebit/errors"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	// Busy timeout: 0 = driver default, negative = invalid
	if c.Database.BusyTimeoutMS < 0 {
		return errors.Newf("database.busy_timeout_ms must be >= 0, got %d", c.Database.BusyTimeoutMS)
	}
	if c.Database.MaxOpenConns < 0 {
		return errors.Newf("database.max_open_conns must be >= 0, got %d", c.Database.MaxOpenConns)
	}

	if c.Registry.DefaultPageSize <= 0 {
		return errors.Newf("registry.default_page_size must be > 0, got %d", c.Registry.DefaultPageSize)
	}
	if c.Registry.MaxPageSize <= 0 {
		return errors.Newf("registry.max_page_size must be > 0, got %d", c.Registry.MaxPageSize)
	}
	if c.Registry.DefaultPageSize > c.Registry.MaxPageSize {
		return errors.Newf("registry.default_page_size (%d) cannot exceed registry.max_page_size (%d)",
			c.Registry.DefaultPageSize, c.Registry.MaxPageSize)
	}

	switch strings.ToLower(c.Registry.DefaultExportFormat) {
	case "json", "yaml":
	default:
		return errors.WithHint(
			errors.Newf("registry.default_export_format %q is not supported", c.Registry.DefaultExportFormat),
			"use json or yaml",
		)
	}

	switch strings.ToLower(strings.TrimSpace(c.Log.Level)) {
	case "", "warn", "info", "debug":
	default:
		return errors.Newf("log.level must be warn, info or debug, got %q", c.Log.Level)
	}

	return nil
}
