package am

import (
	"github.com/spf13/viper"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Database defaults
	v.SetDefault("database.path", DefaultDatabasePath)
	v.SetDefault("database.busy_timeout_ms", 5000)
	v.SetDefault("database.max_open_conns", 0)

	// Registry defaults
	v.SetDefault("registry.default_page_size", DefaultPageSize)
	v.SetDefault("registry.max_page_size", DefaultMaxPageSize)
	v.SetDefault("registry.default_export_format", DefaultExportFormat)
	v.SetDefault("registry.default_actor", DefaultActor)

	// Logging defaults
	v.SetDefault("log.json", false)
	v.SetDefault("log.level", DefaultLogLevel)
}

// BindSensitiveEnvVars explicitly binds configuration that is commonly set per shell
func BindSensitiveEnvVars(v *viper.Viper) {
	v.BindEnv("database.path", "CUEBIT_DATABASE_PATH", "CUEBIT_DB")
	v.BindEnv("registry.default_actor", "CUEBIT_REGISTRY_DEFAULT_ACTOR", "CUEBIT_ACTOR")
}
