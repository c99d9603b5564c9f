package am

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg, err := LoadWithViper(v)
	require.NoError(t, err)

	assert.Equal(t, DefaultDatabasePath, cfg.Database.Path)
	assert.Equal(t, 5000, cfg.Database.BusyTimeoutMS)
	assert.Equal(t, DefaultPageSize, cfg.Registry.DefaultPageSize)
	assert.Equal(t, DefaultMaxPageSize, cfg.Registry.MaxPageSize)
	assert.Equal(t, "json", cfg.Registry.DefaultExportFormat)
	assert.Equal(t, DefaultActor, cfg.Registry.DefaultActor)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func validConfig() Config {
	return Config{
		Registry: RegistryConfig{
			DefaultPageSize:     20,
			MaxPageSize:         100,
			DefaultExportFormat: "yaml",
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "zero busy timeout means default", mutate: func(c *Config) { c.Database.BusyTimeoutMS = 0 }},
		{name: "negative busy timeout", mutate: func(c *Config) { c.Database.BusyTimeoutMS = -1 }, wantErr: "busy_timeout_ms"},
		{name: "negative max conns", mutate: func(c *Config) { c.Database.MaxOpenConns = -2 }, wantErr: "max_open_conns"},
		{name: "zero page size", mutate: func(c *Config) { c.Registry.DefaultPageSize = 0 }, wantErr: "default_page_size"},
		{name: "zero max page size", mutate: func(c *Config) { c.Registry.MaxPageSize = 0 }, wantErr: "max_page_size"},
		{name: "default above max", mutate: func(c *Config) { c.Registry.DefaultPageSize = 500 }, wantErr: "cannot exceed"},
		{name: "unknown export format", mutate: func(c *Config) { c.Registry.DefaultExportFormat = "xml" }, wantErr: "not supported"},
		{name: "upper case format", mutate: func(c *Config) { c.Registry.DefaultExportFormat = "JSON" }},
		{name: "unknown log level", mutate: func(c *Config) { c.Log.Level = "trace" }, wantErr: "log.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGetters(t *testing.T) {
	var cfg Config
	assert.Equal(t, DefaultDatabasePath, cfg.GetDatabasePath())
	assert.Equal(t, DefaultPageSize, cfg.GetDefaultPageSize())
	assert.Equal(t, DefaultMaxPageSize, cfg.GetMaxPageSize())
	assert.Equal(t, DefaultExportFormat, cfg.GetExportFormat())
	assert.Contains(t, cfg.String(), DefaultDatabasePath)

	cfg.Database.Path = "/tmp/x.db"
	assert.Equal(t, "/tmp/x.db", cfg.GetDatabasePath())
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "am.toml")
	writeFile(t, path, `
[database]
path = "prompts.db"

[registry]
max_page_size = 50
default_export_format = "yaml"
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "prompts.db", cfg.Database.Path)
	assert.Equal(t, 50, cfg.Registry.MaxPageSize)
	assert.Equal(t, DefaultPageSize, cfg.Registry.DefaultPageSize)
	assert.Equal(t, "yaml", cfg.Registry.DefaultExportFormat)
}

func TestLoadFromFile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "am.toml")
	writeFile(t, path, "[registry]\ndefault_export_format = \"csv\"\n")

	_, err := LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "csv")

	_, err = LoadFromFile(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}

func TestMergeConfigFiles_Precedence(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	dir := t.TempDir()
	system := filepath.Join(dir, "system.toml")
	user := filepath.Join(dir, "user.toml")
	writeFile(t, system, "[database]\npath = \"system.db\"\n[registry]\nmax_page_size = 40\n")
	writeFile(t, user, "[database]\npath = \"user.db\"\n")

	v := viper.New()
	SetDefaults(v)
	mergeConfigFiles(v, []configFile{
		{path: system, source: SourceSystem},
		{path: filepath.Join(dir, "absent.toml"), source: SourceUser},
		{path: user, source: SourceUser},
	})

	cfg, err := LoadWithViper(v)
	require.NoError(t, err)
	assert.Equal(t, "user.db", cfg.Database.Path)
	assert.Equal(t, 40, cfg.Registry.MaxPageSize)

	assert.Equal(t, SourceUser, ConfigSources["database.path"].Source)
	assert.Equal(t, user, ConfigSources["database.path"].Path)
	assert.Equal(t, SourceSystem, ConfigSources["registry.max_page_size"].Source)
}

func TestMergeConfigFiles_EnvWins(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	path := filepath.Join(t.TempDir(), "am.toml")
	writeFile(t, path, "[database]\npath = \"file.db\"\n")
	t.Setenv("CUEBIT_DATABASE_PATH", "env.db")

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	BindSensitiveEnvVars(v)
	SetDefaults(v)
	mergeConfigFiles(v, []configFile{{path: path, source: SourceProject}})

	assert.Equal(t, "env.db", v.GetString("database.path"))

	introspection := Introspect(v, ConfigSources)
	var found bool
	for _, s := range introspection.Settings {
		if s.Key == "database.path" {
			found = true
			assert.Equal(t, SourceEnvironment, s.Source)
			assert.Equal(t, "CUEBIT_DATABASE_PATH", s.SourcePath)
		}
	}
	assert.True(t, found)
}

func TestIntrospect_Defaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	introspection := Introspect(v, map[string]SourceInfo{
		"registry.max_page_size": {Source: SourceProject, Path: "/work/am.toml"},
	})

	counts := introspection.CountBySource()
	assert.Equal(t, 1, counts[SourceProject])
	assert.Equal(t, len(introspection.Settings)-1, counts[SourceDefault])

	// Sorted by key
	for i := 1; i < len(introspection.Settings); i++ {
		assert.Less(t, introspection.Settings[i-1].Key, introspection.Settings[i].Key)
	}
}

func TestSaveAndBackups(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "am.toml")
	cfg := validConfig()
	cfg.Database.Path = "first.db"

	require.NoError(t, Save(&cfg, path))
	_, err := os.Stat(path + ".back1")
	assert.True(t, os.IsNotExist(err), "no backup for the first write")

	for _, name := range []string{"second.db", "third.db", "fourth.db", "fifth.db"} {
		cfg.Database.Path = name
		require.NoError(t, Save(&cfg, path))
	}

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "fifth.db", loaded.Database.Path)
	assert.Equal(t, "yaml", loaded.Registry.DefaultExportFormat)

	back1, err := os.ReadFile(path + ".back1")
	require.NoError(t, err)
	assert.Contains(t, string(back1), "fourth.db")
	back3, err := os.ReadFile(path + ".back3")
	require.NoError(t, err)
	assert.Contains(t, string(back3), "second.db")
}

func TestSave_RejectsInvalid(t *testing.T) {
	cfg := validConfig()
	cfg.Registry.MaxPageSize = -1
	err := Save(&cfg, filepath.Join(t.TempDir(), "am.toml"))
	require.Error(t, err)
}

func TestRender(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Path = "render.db"

	data, err := Render(&cfg)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[database]")
	assert.Contains(t, string(data), "render.db")
	assert.Contains(t, string(data), "default_export_format")
}
