package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		config := &Config{Server: ServerConfig{Host: "127.0.0.1", Port: "8080"}}
		require.NoError(t, InitConfig(config, "abc123", "v0.1.0", "2023-07-02"))
		assert.Equal(t, "abc123", config.GitCommit)
		assert.Equal(t, "v0.1.0", config.GitTag)
		assert.Equal(t, "2023-07-02", config.BuildTime)
		assert.Equal(t, 10, config.LogMaxSize)
		assert.Equal(t, DefaultStorageKey, config.Storage.Key)
		assert.Equal(t, BackendMemory, config.Storage.Backend)
	})

	t.Run("missing server address", func(t *testing.T) {
		assert.Error(t, InitConfig(&Config{}, "", "", ""))
	})

	t.Run("unknown backend", func(t *testing.T) {
		config := &Config{Server: ServerConfig{Host: "127.0.0.1", Port: "8080"}, Storage: StorageConfig{Backend: "sqlite"}}
		assert.Error(t, InitConfig(config, "", "", ""))
	})

	t.Run("bolt backend requires a file", func(t *testing.T) {
		config := &Config{Server: ServerConfig{Host: "127.0.0.1", Port: "8080"}, Storage: StorageConfig{Backend: BackendBolt}}
		assert.Error(t, InitConfig(config, "", "", ""))
		config.BoltDB = BoltDBConfig{FilePath: "bookshelf.db", BucketName: "bookshelf"}
		assert.NoError(t, InitConfig(config, "", "", ""))
	})

	t.Run("redis backend requires an address", func(t *testing.T) {
		config := &Config{Server: ServerConfig{Host: "127.0.0.1", Port: "8080"}, Storage: StorageConfig{Backend: BackendRedis}}
		assert.Error(t, InitConfig(config, "", "", ""))
	})

	t.Run("backup must not share the boltdb file", func(t *testing.T) {
		config := &Config{
			Server:  ServerConfig{Host: "127.0.0.1", Port: "8080"},
			Storage: StorageConfig{Backend: BackendBolt},
			BoltDB:  BoltDBConfig{FilePath: "./data/bookshelf.db", BucketName: "bookshelf"},
			Redis:   RedisConfig{Host: "127.0.0.1", Port: "6379"},
			Backup:  BackupConfig{Enable: true, FilePath: "data/../data/bookshelf.db"},
		}
		assert.Error(t, InitConfig(config, "", "", ""))

		config.Backup.FilePath = "./data/bookshelf.backup.db"
		assert.NoError(t, InitConfig(config, "", "", ""))

		config.Storage.Backend = BackendMemory
		config.Backup.FilePath = config.BoltDB.FilePath
		assert.NoError(t, InitConfig(config, "", "", ""))
	})

	t.Run("backup defaults", func(t *testing.T) {
		config := &Config{
			Server: ServerConfig{Host: "127.0.0.1", Port: "8080"},
			Redis:  RedisConfig{Host: "127.0.0.1", Port: "6379"},
			Backup: BackupConfig{Enable: true, FilePath: "backup.db"},
		}
		require.NoError(t, InitConfig(config, "", "", ""))
		assert.Equal(t, "bookshelf.changes", config.Backup.Queue)
		assert.Equal(t, "backup", config.Backup.BucketName)
	})
}

func TestLoadConfigFileAndEnvs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	content := []byte("server:\n  host: \"0.0.0.0\"\n  port: \"8080\"\nstorage:\n  backend: \"bolt\"\n")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	config, err := LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0", config.Server.Host)
	assert.Equal(t, BackendBolt, config.Storage.Backend)

	_, err = LoadConfigFile(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}
