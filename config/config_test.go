package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
	cfg := DBConfig{
		Host:           "db.local",
		User:           "quickplate",
		Password:       "hunter2",
		Name:           "quickplate",
		Port:           3306,
		Charset:        "utf8mb4",
		ConnectTimeout: 10 * time.Second,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
	}
	assert.Equal(t,
		"quickplate:hunter2@tcp(db.local:3306)/quickplate?charset=utf8mb4&parseTime=true&timeout=10s&readTimeout=10s&writeTimeout=10s",
		cfg.DSN())
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_HOST", "db.local")
	t.Setenv("DB_USER", "quickplate")
	t.Setenv("DB_NAME", "quickplate")
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("DB_PORT", "")
	t.Setenv("HTTP_PORT", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3306, cfg.DB.Port)
	assert.Equal(t, "utf8mb4", cfg.DB.Charset)
	assert.Equal(t, "8080", cfg.HTTPPort)
}

func TestLoadAggregatesMissingKeys(t *testing.T) {
	t.Setenv("DB_HOST", "")
	t.Setenv("DB_USER", "")
	t.Setenv("DB_NAME", "quickplate")
	t.Setenv("JWT_SECRET_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_HOST")
	assert.Contains(t, err.Error(), "DB_USER")
	assert.Contains(t, err.Error(), "JWT_SECRET_KEY")
}

func TestLoadRejectsBadPort(t *testing.T) {
	t.Setenv("DB_HOST", "db.local")
	t.Setenv("DB_USER", "quickplate")
	t.Setenv("DB_NAME", "quickplate")
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("DB_PORT", "not-a-port")

	_, err := Load()
	assert.Error(t, err)
}
