package am

import "fmt"

// Config represents the cuebit configuration
type Config struct {
	Database DatabaseConfig `mapstructure:"database" toml:"database"`
	Registry RegistryConfig `mapstructure:"registry" toml:"registry"`
	Log      LogConfig      `mapstructure:"log" toml:"log"`
}

// DatabaseConfig configures the SQLite database
type DatabaseConfig struct {
	Path          string `mapstructure:"path" toml:"path"`
	BusyTimeoutMS int    `mapstructure:"busy_timeout_ms" toml:"busy_timeout_ms"` // 0 = driver default (5000)
	MaxOpenConns  int    `mapstructure:"max_open_conns" toml:"max_open_conns"`   // 0 = unlimited
}

// RegistryConfig configures prompt registry behaviour
type RegistryConfig struct {
	DefaultPageSize     int    `mapstructure:"default_page_size" toml:"default_page_size"`
	MaxPageSize         int    `mapstructure:"max_page_size" toml:"max_page_size"`
	DefaultExportFormat string `mapstructure:"default_export_format" toml:"default_export_format"` // json or yaml
	DefaultActor        string `mapstructure:"default_actor" toml:"default_actor"`                 // recorded as updated_by/deleted_by when none given
}

// LogConfig configures logging
type LogConfig struct {
	JSON  bool   `mapstructure:"json" toml:"json"`
	Level string `mapstructure:"level" toml:"level"` // warn, info, debug
}

// Defaults
const (
	DefaultDatabasePath    = "cuebit.db"
	DefaultPageSize        = 20
	DefaultMaxPageSize     = 200
	DefaultExportFormat    = "json"
	DefaultActor           = "cuebit@user"
	DefaultLogLevel        = "warn"
	DefaultDirPermissions  = 0755 // Standard directory permissions (rwxr-xr-x)
	DefaultFilePermissions = 0644 // Standard file permissions (rw-r--r--)
)

// GetDatabasePath returns the configured database path
func (c *Config) GetDatabasePath() string {
	if c.Database.Path == "" {
		return DefaultDatabasePath
	}
	return c.Database.Path
}

// GetDefaultPageSize returns the page size used when a caller gives none
func (c *Config) GetDefaultPageSize() int {
	if c.Registry.DefaultPageSize <= 0 {
		return DefaultPageSize
	}
	return c.Registry.DefaultPageSize
}

// GetMaxPageSize returns the largest page a caller may request
func (c *Config) GetMaxPageSize() int {
	if c.Registry.MaxPageSize <= 0 {
		return DefaultMaxPageSize
	}
	return c.Registry.MaxPageSize
}

// GetExportFormat returns the export format used when a caller gives none
func (c *Config) GetExportFormat() string {
	if c.Registry.DefaultExportFormat == "" {
		return DefaultExportFormat
	}
	return c.Registry.DefaultExportFormat
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf("Config{Database: %s, Registry: {PageSize: %d/%d, Export: %s}, Log: {Level: %s}}",
		c.GetDatabasePath(), c.GetDefaultPageSize(), c.GetMaxPageSize(), c.GetExportFormat(), c.Log.Level)
}
