package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	tempDir := t.TempDir()

	originalWD, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = os.Chdir(originalWD)
	})
	require.NoError(t, os.Chdir(tempDir))
	return tempDir
}

func defaultConfig() *Config {
	v := viper.New()
	setDefaults(v)
	return fromViper(v)
}

func TestLoadConfig_HappyPath(t *testing.T) {
	tempDir := chdirTemp(t)

	tempConfigsSubDir := filepath.Join(tempDir, "configs")
	require.NoError(t, os.Mkdir(tempConfigsSubDir, 0755))

	testAppName := "TestLedger"
	testPort := 9090
	testLogLevel := "debug"
	testSQLitePath := "trip.db"

	envContent := fmt.Sprintf(
		"APP_NAME=%s\nSERVER_PORT=%d\nLOG_LEVEL=%s\nSQLITE_PATH=%s\n",
		testAppName, testPort, testLogLevel, testSQLitePath,
	)
	envFilePath := filepath.Join(tempConfigsSubDir, "test_happy.env")
	require.NoError(t, os.WriteFile(envFilePath, []byte(envContent), 0644))

	cfg, err := LoadConfig("test_happy")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, testAppName, cfg.Application.Name)
	assert.Equal(t, testPort, cfg.Server.Port)
	assert.Equal(t, testLogLevel, cfg.Logging.Level)
	assert.Equal(t, testSQLitePath, cfg.SQLite.Path)

	assert.Equal(t, "development", cfg.Application.Env)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, "https://api.frankfurter.app/latest?from=ILS", cfg.FX.SourceURL)
	assert.Equal(t, "$.rates", cfg.FX.RatesPath)
	assert.Equal(t, 8, cfg.WorkerPool.Size)

	fromFile, err := LoadConfigFile(envFilePath)
	require.NoError(t, err)
	assert.Equal(t, testAppName, fromFile.Application.Name)
	assert.Equal(t, testSQLitePath, fromFile.SQLite.Path)
}

func TestLoadConfigFile_MissingFileFails(t *testing.T) {
	_, err := LoadConfigFile(filepath.Join(t.TempDir(), "absent.env"))

	assert.Error(t, err)
}

func TestLoadConfig_NoFileUsesDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := LoadConfig("missing")
	require.NoError(t, err)
	assert.Equal(t, "travel-ledger", cfg.Application.Name)
	assert.Equal(t, "travel_ledger.db", cfg.SQLite.Path)
}

func TestLoadConfig_EnvironmentOverridesFile(t *testing.T) {
	tempDir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "env_override.env"), []byte("STORAGE_DRIVER=sqlite\n"), 0644))
	t.Setenv("STORAGE_DRIVER", "memory")

	cfg, err := LoadConfig("env_override")
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
}

func TestLoadConfig_InvalidDriver(t *testing.T) {
	chdirTemp(t)
	t.Setenv("STORAGE_DRIVER", "indexeddb")

	_, err := LoadConfig("missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORAGE_DRIVER must be one of")
}

func TestConfig_Validate_HappyPath(t *testing.T) {
	assert.NoError(t, defaultConfig().validate(), "Default config should be valid")
}

func TestConfig_Validate_OnlySelectedBackend(t *testing.T) {
	t.Run("SQLiteIgnoresPostgres", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.Postgres = PostgresConfig{}
		cfg.MongoDB = MongoDBConfig{}
		assert.NoError(t, cfg.validate())
	})

	t.Run("PostgresChecked", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.Storage.Driver = DriverPostgres
		cfg.Postgres.URL = ""
		cfg.Postgres.MaxConns = 0
		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "POSTGRES_URL is required")
		assert.Contains(t, err.Error(), "POSTGRES_MAX_CONNS must be greater than 0")
	})

	t.Run("MongoChecked", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.Storage.Driver = DriverMongo
		cfg.MongoDB.Database = ""
		err := cfg.validate()
		require.Error(t, err)
		assert.EqualError(t, err, "MONGO_DATABASE is required")
	})

	t.Run("MemoryNeedsNothing", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.Storage.Driver = DriverMemory
		cfg.SQLite.Path = ""
		assert.NoError(t, cfg.validate())
	})
}

func TestConfig_Validate_CollectsAllErrors(t *testing.T) {
	cfg := defaultConfig()
	cfg.Server.Port = 0
	cfg.SQLite.Path = ""
	cfg.FX.RatesPath = "rates"
	cfg.WorkerPool.Size = 0

	err := cfg.validate()
	require.Error(t, err)
	assert.EqualError(t, err, "SERVER_PORT must be greater than 0, SQLITE_PATH is required, "+
		"FX_RATES_PATH must be a JSONPath starting with $, WORKER_POOL_SIZE must be greater than 0")
}
