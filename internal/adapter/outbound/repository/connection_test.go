package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		Database: "codeatlas",
		Username: "codeatlas",
		Password: "secret",
		Schema:   "codeatlas",
	}
}

func TestDatabaseConfig_Validate(t *testing.T) {
	assert.NoError(t, validDatabaseConfig().Validate())

	tests := []struct {
		name    string
		mutate  func(*DatabaseConfig)
		wantErr string
	}{
		{"missing host", func(c *DatabaseConfig) { c.Host = "" }, "host is required"},
		{"port too low", func(c *DatabaseConfig) { c.Port = 0 }, "port must be between"},
		{"port too high", func(c *DatabaseConfig) { c.Port = 70000 }, "port must be between"},
		{"missing database", func(c *DatabaseConfig) { c.Database = "" }, "database is required"},
		{"missing username", func(c *DatabaseConfig) { c.Username = "" }, "username is required"},
		{"missing schema", func(c *DatabaseConfig) { c.Schema = "" }, "schema is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validDatabaseConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDatabaseConfig_ConnString(t *testing.T) {
	cfg := validDatabaseConfig()
	assert.Equal(t,
		"host=localhost port=5432 dbname=codeatlas user=codeatlas password=secret sslmode=disable search_path=codeatlas",
		cfg.connString())

	cfg.SSLMode = "require"
	assert.Contains(t, cfg.connString(), "sslmode=require")
}

func TestDatabaseHealthChecker_NilPool(t *testing.T) {
	checker := NewDatabaseHealthChecker(nil)
	assert.False(t, checker.IsHealthy(context.Background()))
	assert.Equal(t, PoolStats{}, checker.Stats())
}
