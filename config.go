package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Supported storage backends.
const (
	BackendMemory = "memory"
	BackendBolt   = "bolt"
	BackendRedis  = "redis"
)

// Config defines the structure of the configuration file.
type Config struct {
	GitCommit               string        `yaml:"git_commit" envconfig:"BSHELF_GIT_COMMIT"`
	GitTag                  string        `yaml:"git_tag" envconfig:"BSHELF_GIT_TAG"`
	BuildTime               string        `yaml:"build_time" envconfig:"BSHELF_BUILD_TIME"`
	IsProduction            bool          `yaml:"is_production" envconfig:"BSHELF_IS_PRODUCTION"`
	LogLevel                zapcore.Level `yaml:"log_level" envconfig:"BSHELF_LOG_LEVEL"`
	LogFolder               string        `yaml:"log_folder" envconfig:"BSHELF_LOG_FOLDER"`
	LogMaxSize              int           `yaml:"log_max_size" envconfig:"BSHELF_LOG_MAX_SIZE"`
	OpsEndpointsEnable      bool          `yaml:"ops_endpoints_enable" envconfig:"BSHELF_OPS_ENDPOINTS_ENABLE"`
	ProfilerEndpointsEnable bool          `yaml:"profiler_endpoints_enable" envconfig:"BSHELF_PROFILER_ENDPOINTS_ENABLE"`
	Server                  ServerConfig  `yaml:"server"`
	Storage                 StorageConfig `yaml:"storage"`
	Redis                   RedisConfig   `yaml:"redis"`
	BoltDB                  BoltDBConfig  `yaml:"boltdb"`
	Backup                  BackupConfig  `yaml:"backup"`
}

type ServerConfig struct {
	Host            string        `yaml:"host" envconfig:"BSHELF_SERVER_HOST"`
	Port            string        `yaml:"port" envconfig:"BSHELF_SERVER_PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"BSHELF_SERVER_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"BSHELF_SERVER_WRITE_TIMEOUT"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"BSHELF_SERVER_REQUEST_TIMEOUT"` // Time to wait for a request to finish
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"BSHELF_SERVER_SHUTDOWN_TIMEOUT"`
}

// StorageConfig selects where the collection blob lives.
type StorageConfig struct {
	Backend string `yaml:"backend" envconfig:"BSHELF_STORAGE_BACKEND"`
	Key     string `yaml:"key" envconfig:"BSHELF_STORAGE_KEY"`
}

type RedisConfig struct {
	Host          string        `yaml:"host" envconfig:"BSHELF_REDIS_HOST"`
	Port          string        `yaml:"port" envconfig:"BSHELF_REDIS_PORT"`
	DialTimeout   time.Duration `yaml:"dial_timeout" envconfig:"BSHELF_REDIS_DIAL_TIMEOUT"`
	ReadTimeout   time.Duration `yaml:"read_timeout" envconfig:"BSHELF_REDIS_READ_TIMEOUT"`
	WriteTimeout  time.Duration `yaml:"write_timeout" envconfig:"BSHELF_REDIS_WRITE_TIMEOUT"`
	PoolSize      int           `yaml:"pool_size" envconfig:"BSHELF_REDIS_POOL_SIZE"`
	PoolTimeout   time.Duration `yaml:"pool_timeout" envconfig:"BSHELF_REDIS_POOL_TIMEOUT"`
	Username      string        `yaml:"username" envconfig:"BSHELF_REDIS_USERNAME"`
	Password      string        `yaml:"password" envconfig:"BSHELF_REDIS_PASSWORD"`
	DatabaseIndex int           `yaml:"db_index" envconfig:"BSHELF_REDIS_DATABASE_INDEX"`
}

type BoltDBConfig struct {
	FilePath   string        `yaml:"filepath" envconfig:"BSHELF_BOLTDB_FILE_PATH"`
	Timeout    time.Duration `yaml:"timeout" envconfig:"BSHELF_BOLTDB_TIMEOUT"`
	BucketName string        `yaml:"bucket_name" envconfig:"BSHELF_BOLTDB_BUCKET_NAME"`
}

// BackupConfig drives the change feed which mirrors every saved
// collection into a boltdb backup through a redis queue.
type BackupConfig struct {
	Enable     bool   `yaml:"enable" envconfig:"BSHELF_BACKUP_ENABLE"`
	Queue      string `yaml:"queue" envconfig:"BSHELF_BACKUP_QUEUE"`
	FilePath   string `yaml:"filepath" envconfig:"BSHELF_BACKUP_FILE_PATH"`
	BucketName string `yaml:"bucket_name" envconfig:"BSHELF_BACKUP_BUCKET_NAME"`
}

// LoadConfigFile provides an instance of config structure for the all application.
func LoadConfigFile(configFile string) (*Config, error) {
	file, err := os.Open(configFile)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	cfg := &Config{}
	yd := yaml.NewDecoder(file)
	err = yd.Decode(cfg)

	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfigEnvs reads the environments variables and provides an instance of the App config.
func LoadConfigEnvs(prefix string, config *Config) error {
	return envconfig.Process(prefix, config)
}

// InitConfig setup defaults values for non provided parameters
// and configures build tags values to be used if provided.
func InitConfig(config *Config, gitCommit, gitTag, buildTime string) error {
	if len(gitCommit) != 0 {
		config.GitCommit = gitCommit
	}

	if len(gitTag) != 0 {
		config.GitTag = gitTag
	}

	if len(buildTime) != 0 {
		config.BuildTime = buildTime
	}

	if len(config.Server.Host) == 0 || len(config.Server.Port) == 0 {
		return errors.New("make sure to set valid server address and port in configuration file")
	}

	if config.LogMaxSize <= 0 {
		config.LogMaxSize = 10
	}

	if config.Storage.Key == "" {
		config.Storage.Key = DefaultStorageKey
	}

	if config.Storage.Backend == "" {
		config.Storage.Backend = BackendMemory
	}

	switch config.Storage.Backend {
	case BackendMemory:
	case BackendBolt:
		if len(config.BoltDB.FilePath) == 0 || len(config.BoltDB.BucketName) == 0 {
			return errors.New("make sure to set valid boltdb file path and bucket name in configuration file")
		}
	case BackendRedis:
		if len(config.Redis.Host) == 0 || len(config.Redis.Port) == 0 {
			return errors.New("make sure to set valid redis address and port in configuration file")
		}
	default:
		return fmt.Errorf("unsupported storage backend %q", config.Storage.Backend)
	}

	if config.Backup.Enable {
		if len(config.Redis.Host) == 0 || len(config.Redis.Port) == 0 {
			return errors.New("backup requires valid redis address and port in configuration file")
		}
		if len(config.Backup.FilePath) == 0 {
			return errors.New("backup requires a valid file path in configuration file")
		}
		if config.Storage.Backend == BackendBolt && samePath(config.Backup.FilePath, config.BoltDB.FilePath) {
			return errors.New("backup file path must differ from the boltdb file path")
		}
		if config.Backup.Queue == "" {
			config.Backup.Queue = "bookshelf.changes"
		}
		if config.Backup.BucketName == "" {
			config.Backup.BucketName = "backup"
		}
	}

	return nil
}

// samePath reports whether both paths name the same file once made absolute.
func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

// LoadAndInitConfigs loads in order the configs from various predefined sources
// then build the App configuration data.
func LoadAndInitConfigs(gitCommit, gitTag, buildTime string) (*Config, error) {
	// Setup the yaml configuration from file.
	config, err := LoadConfigFile("./config.yml")
	if err != nil {
		return config, fmt.Errorf("failed to load configurations from file: %s", err)
	}

	// Set the environment configuration.
	err = godotenv.Load("./config.env")
	if err != nil {
		return config, fmt.Errorf("failed to set environment configurations: %s", err)
	}

	// Use environment variables with prefix `BSHELF`.
	err = LoadConfigEnvs("BSHELF", config)
	if err != nil {
		return config, fmt.Errorf("failed to load configurations from environment: %s", err)
	}

	err = InitConfig(config, gitCommit, gitTag, buildTime)
	if err != nil {
		return config, fmt.Errorf("failed to initialize configurations: %s", err)
	}
	return config, nil
}
