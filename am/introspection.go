package am

import (
	"os"
	"sort"
	"strings"

	"github.com/spf13/viper"
)

// ConfigSource represents where a configuration value came from
type ConfigSource string

const (
	SourceDefault     ConfigSource = "default"
	SourceSystem      ConfigSource = "system"      // /etc/cuebit/config.toml
	SourceUser        ConfigSource = "user"        // ~/.cuebit/am.toml
	SourceProject     ConfigSource = "project"     // project am.toml
	SourceEnvironment ConfigSource = "environment" // CUEBIT_* env vars
)

// SourceInfo tracks where a configuration value originated
type SourceInfo struct {
	Source ConfigSource
	Path   string // File path or environment variable name
}

// SettingInfo contains metadata about a configuration setting
type SettingInfo struct {
	Key        string       `json:"key"`
	Value      interface{}  `json:"value"`
	Source     ConfigSource `json:"source"`
	SourcePath string       `json:"source_path,omitempty"`
}

// ConfigIntrospection lists every effective setting with its origin
type ConfigIntrospection struct {
	Settings []SettingInfo `json:"settings"`
}

// GetConfigIntrospection returns the effective settings of the global config
func GetConfigIntrospection() *ConfigIntrospection {
	v := GetViper()
	mu.Lock()
	defer mu.Unlock()
	return Introspect(v, ConfigSources)
}

// Introspect flattens the settings of v, attributing each key to sources,
// to an overriding environment variable, or to the built-in defaults
func Introspect(v *viper.Viper, sources map[string]SourceInfo) *ConfigIntrospection {
	keys := v.AllKeys()
	sort.Strings(keys)

	introspection := &ConfigIntrospection{Settings: make([]SettingInfo, 0, len(keys))}
	for _, key := range keys {
		sourceInfo := SourceInfo{Source: SourceDefault, Path: "built-in default"}
		if si, ok := sources[key]; ok {
			sourceInfo = si
		}

		envKey := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if _, ok := os.LookupEnv(envKey); ok {
			sourceInfo = SourceInfo{Source: SourceEnvironment, Path: envKey}
		}

		introspection.Settings = append(introspection.Settings, SettingInfo{
			Key:        key,
			Value:      v.Get(key),
			Source:     sourceInfo.Source,
			SourcePath: sourceInfo.Path,
		})
	}
	return introspection
}

// CountBySource returns how many settings each source supplied
func (c *ConfigIntrospection) CountBySource() map[ConfigSource]int {
	counts := make(map[ConfigSource]int)
	for _, s := range c.Settings {
		counts[s.Source]++
	}
	return counts
}
