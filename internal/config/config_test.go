package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfigViper() *viper.Viper {
	v := viper.New()
	v.Set("api.host", "0.0.0.0")
	v.Set("api.port", "8080")
	v.Set("api.read_timeout", "10s")
	v.Set("api.write_timeout", "10s")
	v.Set("worker.concurrency", 5)
	v.Set("worker.queue_group", "analysis-workers")
	v.Set("worker.job_timeout", "10m")
	v.Set("database.host", "localhost")
	v.Set("database.port", 5432)
	v.Set("database.user", "codeatlas")
	v.Set("database.name", "codeatlas")
	v.Set("database.sslmode", "disable")
	v.Set("nats.url", "nats://localhost:4222")
	v.Set("parser.command", "esparse")
	v.Set("parser.timeout", "30s")
	v.Set("analysis.concurrency", 8)
	v.Set("log.level", "info")
	v.Set("log.format", "json")
	return v
}

func TestNew_LoadsConfiguration(t *testing.T) {
	cfg := New(validConfigViper())

	assert.Equal(t, "8080", cfg.API.Port)
	assert.Equal(t, 10*time.Second, cfg.API.ReadTimeout)
	assert.Equal(t, 5, cfg.Worker.Concurrency)
	assert.Equal(t, "analysis-workers", cfg.Worker.QueueGroup)
	assert.Equal(t, "esparse", cfg.Parser.Command)
	assert.Equal(t, 8, cfg.Analysis.Concurrency)
}

func TestNew_PanicsOnInvalidConfig(t *testing.T) {
	v := validConfigViper()
	v.Set("database.user", "")

	assert.Panics(t, func() { New(v) })
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid config",
			mutate: func(*Config) {},
		},
		{
			name:    "missing database user",
			mutate:  func(c *Config) { c.Database.User = "" },
			wantErr: "database.user is required",
		},
		{
			name:    "missing database name",
			mutate:  func(c *Config) { c.Database.Name = "" },
			wantErr: "database.name is required",
		},
		{
			name:    "zero worker concurrency",
			mutate:  func(c *Config) { c.Worker.Concurrency = 0 },
			wantErr: "worker.concurrency must be at least 1",
		},
		{
			name:    "database port out of range",
			mutate:  func(c *Config) { c.Database.Port = 70000 },
			wantErr: "database.port must be between 1 and 65535",
		},
		{
			name:    "zero analysis concurrency",
			mutate:  func(c *Config) { c.Analysis.Concurrency = 0 },
			wantErr: "analysis.concurrency must be at least 1",
		},
		{
			name:    "non-positive parser timeout",
			mutate:  func(c *Config) { c.Parser.Timeout = 0 },
			wantErr: "parser.timeout must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New(validConfigViper())
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	dsn := DatabaseConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "atlas",
		Password: "secret",
		Name:     "codeatlas",
		SSLMode:  "require",
	}.DSN()

	assert.Equal(t, "host=db.internal port=5433 user=atlas password=secret dbname=codeatlas sslmode=require", dsn)
}
