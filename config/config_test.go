package config

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"MONGO_URI", "MONGO_DATABASE", "MONGO_COLLECTION", "HTTP_ADDR", "LOG_LEVEL", "STORE_DRIVER"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("MONGO_URI", "mongodb://localhost:27017/shop")

		cfg, err := LoadConfig("", newTestLogger())
		require.NoError(t, err)
		assert.Equal(t, "mongodb://localhost:27017/shop", cfg.MongoURI)
		assert.Equal(t, "products", cfg.MongoCollection)
		assert.Equal(t, ":3000", cfg.HTTPAddr)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, DriverMongo, cfg.StoreDriver)
	})

	t.Run("MissingMongoURI", func(t *testing.T) {
		clearEnv(t)

		_, err := LoadConfig("", newTestLogger())
		assert.Error(t, err)
	})

	t.Run("MemoryDriverNeedsNoURI", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("STORE_DRIVER", DriverMemory)

		cfg, err := LoadConfig("", newTestLogger())
		require.NoError(t, err)
		assert.Equal(t, DriverMemory, cfg.StoreDriver)
	})

	t.Run("UnknownDriver", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("STORE_DRIVER", "postgres")

		_, err := LoadConfig("", newTestLogger())
		assert.Error(t, err)
	})

	t.Run("EnvFile", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("HTTP_ADDR", ":9000")
		envFile := filepath.Join(t.TempDir(), ".env")
		content := "MONGO_URI=mongodb://db:27017\nHTTP_ADDR=:8000\nLOG_LEVEL=debug\n"
		require.NoError(t, os.WriteFile(envFile, []byte(content), 0o600))

		cfg, err := LoadConfig(envFile, newTestLogger())
		require.NoError(t, err)
		assert.Equal(t, "mongodb://db:27017", cfg.MongoURI)
		assert.Equal(t, ":9000", cfg.HTTPAddr)
		assert.Equal(t, "debug", cfg.LogLevel)
	})

	t.Run("MissingEnvFileIsIgnored", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("STORE_DRIVER", DriverMemory)

		_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.env"), newTestLogger())
		assert.NoError(t, err)
	})
}
