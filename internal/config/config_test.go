package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "./data/people.db", cfg.Database.Path)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "file", cfg.Import.Source)
	assert.Equal(t, 1000, cfg.Import.HTTP.Results)
	assert.Equal(t, 30*time.Second, cfg.Import.HTTP.Timeout)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9100
database:
  driver: postgres
  host: db.internal
import:
  source: s3
  s3:
    bucket: datasets
    key: persons.json
clock:
  timezone: Europe/Zurich
`), 0o600))

	t.Setenv("PEOPLE_LOGGING_LEVEL", "debug")
	t.Setenv("PEOPLE_DATABASE_USER", "reporter")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "reporter", cfg.Database.User)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "datasets", cfg.Import.S3.Bucket)
	assert.Contains(t, cfg.Database.DSN(), "host=db.internal")

	loc, err := cfg.Clock.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Zurich", loc.String())
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:   ServerConfig{Port: 8080},
			Database: DatabaseConfig{Driver: "sqlite", Path: "people.db"},
			Logging:  LoggingConfig{Level: "info", Format: "json"},
			Import:   ImportConfig{Source: "file", Path: "persons.json"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"bad driver", func(c *Config) { c.Database.Driver = "mysql" }, "database.driver"},
		{"sqlite without path", func(c *Config) { c.Database.Path = "" }, "database.path"},
		{"postgres without host", func(c *Config) { c.Database = DatabaseConfig{Driver: "postgres"} }, "database.host"},
		{"unknown source", func(c *Config) { c.Import.Source = "ftp" }, "import.source"},
		{"s3 without key", func(c *Config) { c.Import = ImportConfig{Source: "s3", S3: S3SourceConfig{Bucket: "b"}} }, "import.s3"},
		{"http without url", func(c *Config) { c.Import = ImportConfig{Source: "http"} }, "import.http.url"},
		{"bad timezone", func(c *Config) { c.Clock.Timezone = "Mars/Olympus" }, "clock.timezone"},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
