package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	for _, k := range []string{"STORAGE_BACKEND", "DB_DRIVER", "DB_DSN", "DB_PORT", "HTTP_PORT", "APP_ENV"} {
		t.Setenv(k, "")
	}

	cfg := New()
	assert.Equal(t, BackendMemory, cfg.Storage.Backend)
	assert.Equal(t, "mysql", cfg.DB.Driver)
	assert.Equal(t, "3306", cfg.DB.Port)
	assert.Equal(t, "root:root@tcp(localhost:3306)/filmorate?parseTime=true&charset=utf8mb4&loc=UTC", cfg.DB.DSN)
	assert.Equal(t, "8080", cfg.HTTP.Port)
	assert.False(t, cfg.IsDevelopment())
}

func TestNew_PostgresDSN(t *testing.T) {
	t.Setenv("DB_DSN", "")
	t.Setenv("DB_PORT", "")
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_SSLMODE", "require")

	cfg := New()
	assert.Equal(t, "postgres", cfg.DB.Driver)
	assert.Contains(t, cfg.DB.DSN, "host=db port=5432")
	assert.Contains(t, cfg.DB.DSN, "sslmode=require")
}

func TestNew_ExplicitDSNWins(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_DSN", "file::memory:")

	cfg := New()
	assert.Equal(t, "file::memory:", cfg.DB.DSN)
}

func TestNew_RedisAndFlags(t *testing.T) {
	t.Setenv("REDIS_DB", "3")
	t.Setenv("LOG_SOURCE", "yes")
	t.Setenv("APP_ENV", "Development")

	cfg := New()
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.True(t, cfg.Log.Source)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_ReadsDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("STORAGE_BACKEND=redis\nGRPC_PORT=6000\n"), 0o600))
	t.Setenv("STORAGE_BACKEND", "")
	t.Setenv("GRPC_PORT", "")
	// godotenv does not override variables that are already set, so clear them
	require.NoError(t, os.Unsetenv("STORAGE_BACKEND"))
	require.NoError(t, os.Unsetenv("GRPC_PORT"))

	cfg := Load(path)
	assert.Equal(t, BackendRedis, cfg.Storage.Backend)
	assert.Equal(t, "6000", cfg.GRPC.Port)
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	cfg.Storage.Backend = BackendMemory
	assert.NoError(t, cfg.Validate())

	cfg.Storage.Backend = "cassandra"
	assert.ErrorContains(t, cfg.Validate(), "STORAGE_BACKEND")

	cfg.Storage.Backend = BackendSQL
	cfg.DB.Driver = "oracle"
	assert.ErrorContains(t, cfg.Validate(), "DB_DRIVER")

	cfg.DB.Driver = "sqlite"
	assert.NoError(t, cfg.Validate())
}

func TestAddrs(t *testing.T) {
	cfg := &Config{}
	cfg.GRPC.Host, cfg.GRPC.Port = "0.0.0.0", "50051"
	cfg.HTTP.Host, cfg.HTTP.Port = "::1", "8080"
	assert.Equal(t, "0.0.0.0:50051", cfg.GRPCAddr())
	assert.Equal(t, "[::1]:8080", cfg.HTTPAddr())
}
