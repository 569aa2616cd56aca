package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, key := range []string{
		"APP_PORT", "APP_ENV", "LOG_LEVEL", "FRONTEND_URL", "STORAGE_DRIVER",
		"SQLITE_PATH", "DB_PORT", "DB_PASSWORD", "PAYROLL_TIMEZONE",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "http://localhost:3000", cfg.App.FrontendURL)
	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, "smart_hr.db", cfg.Storage.SQLitePath)
	assert.Equal(t, "Local", cfg.Payroll.Timezone)

	level, err := cfg.LogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("APP_PORT", "9090")
	t.Setenv("STORAGE_DRIVER", "MEMORY")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("PAYROLL_TIMEZONE", "Asia/Kolkata")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.App.Port)
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Kolkata", loc.String())
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("APP_PORT", "eighty")

	_, err := Load()
	assert.ErrorContains(t, err, "invalid APP_PORT")
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Storage: StorageConfig{Driver: DriverSQLite, SQLitePath: "x.db"},
			App:     AppConfig{Port: 8080, LogLevel: "info"},
			Payroll: PayrollConfig{Timezone: "UTC"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid sqlite", func(c *Config) {}, ""},
		{"postgres needs password", func(c *Config) { c.Storage.Driver = DriverPostgres }, "DB_PASSWORD is required"},
		{"postgres with password", func(c *Config) {
			c.Storage.Driver = DriverPostgres
			c.Database.Password = "secret"
		}, ""},
		{"unknown driver", func(c *Config) { c.Storage.Driver = "redis" }, "unsupported STORAGE_DRIVER"},
		{"empty sqlite path", func(c *Config) { c.Storage.SQLitePath = "" }, "SQLITE_PATH is required"},
		{"bad port", func(c *Config) { c.App.Port = 0 }, "APP_PORT"},
		{"bad log level", func(c *Config) { c.App.LogLevel = "loud" }, "invalid LOG_LEVEL"},
		{"bad timezone", func(c *Config) { c.Payroll.Timezone = "Mars/Olympus" }, "invalid PAYROLL_TIMEZONE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestDatabaseURL(t *testing.T) {
	cfg := Config{Database: DatabaseConfig{
		Host: "db", Port: 5433, User: "hr", Password: "pw", Name: "smart-hr", SSLMode: "require",
	}}
	assert.Equal(t, "postgres://hr:pw@db:5433/smart-hr?sslmode=require", cfg.DatabaseURL())
}
