package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Storage backend selector values.
const (
	BackendMongo = "mongo"
	BackendBolt  = "bolt"
)

// Config defines the structure of the configuration file.
type Config struct {
	GitCommit    string        `yaml:"git_commit" envconfig:"BSA_GIT_COMMIT"`
	GitTag       string        `yaml:"git_tag" envconfig:"BSA_GIT_TAG"`
	BuildTime    string        `yaml:"build_time" envconfig:"BSA_BUILD_TIME"`
	IsProduction bool          `yaml:"is_production" envconfig:"BSA_IS_PRODUCTION"`
	LogLevel     zapcore.Level `yaml:"log_level" envconfig:"BSA_LOG_LEVEL"`
	LogFile      string        `yaml:"log_file" envconfig:"BSA_LOG_FILE"`
	Server       ServerConfig  `yaml:"server"`
	Storage      StorageConfig `yaml:"storage"`
	Mongo        MongoConfig   `yaml:"mongo"`
	BoltDB       BoltDBConfig  `yaml:"boltdb"`
}

type ServerConfig struct {
	Host            string        `yaml:"host" envconfig:"BSA_SERVER_HOST"`
	Port            string        `yaml:"port" envconfig:"BSA_SERVER_PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"BSA_SERVER_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"BSA_SERVER_WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"BSA_SERVER_SHUTDOWN_TIMEOUT"`
}

type StorageConfig struct {
	Backend string `yaml:"backend" envconfig:"BSA_STORAGE_BACKEND"`
}

type MongoConfig struct {
	URI            string        `yaml:"uri" envconfig:"BSA_MONGO_URI"`
	Database       string        `yaml:"database" envconfig:"BSA_MONGO_DATABASE"`
	Collection     string        `yaml:"collection" envconfig:"BSA_MONGO_COLLECTION"`
	ConnectTimeout time.Duration `yaml:"connect_timeout" envconfig:"BSA_MONGO_CONNECT_TIMEOUT"`
}

type BoltDBConfig struct {
	FilePath   string        `yaml:"filepath" envconfig:"BSA_BOLTDB_FILE_PATH"`
	Timeout    time.Duration `yaml:"timeout" envconfig:"BSA_BOLTDB_TIMEOUT"`
	BucketName string        `yaml:"bucket_name" envconfig:"BSA_BOLTDB_BUCKET_NAME"`
}

// LoadConfigFile fills the config structure from a yaml file. A missing
// file is not an error: the defaults and environment take over.
func LoadConfigFile(configFile string, cfg *Config) error {
	file, err := os.Open(configFile)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	defer file.Close()
	return yaml.NewDecoder(file).Decode(cfg)
}

// LoadConfigEnvs reads the environments variables and overrides the
// corresponding config fields.
func LoadConfigEnvs(prefix string, config *Config) error {
	return envconfig.Process(prefix, config)
}

// InitConfig applies build tags values if provided and fills every
// still-empty parameter with its fixed fallback default so the binary
// runs without any configuration at all.
func InitConfig(config *Config, gitCommit, gitTag, buildTime string) {
	if len(gitCommit) != 0 {
		config.GitCommit = gitCommit
	}
	if len(gitTag) != 0 {
		config.GitTag = gitTag
	}
	if len(buildTime) != 0 {
		config.BuildTime = buildTime
	}

	// The plain PORT and MONGODB_URI variables win over file values
	// to stay deployable on platforms which only inject those.
	if v := os.Getenv("PORT"); v != "" {
		config.Server.Port = v
	}
	if v := os.Getenv("MONGODB_URI"); v != "" {
		config.Mongo.URI = v
	}

	setDefault(&config.Server.Host, "0.0.0.0")
	setDefault(&config.Server.Port, "8080")
	setDefaultDuration(&config.Server.ReadTimeout, 10*time.Second)
	setDefaultDuration(&config.Server.WriteTimeout, 30*time.Second)
	setDefaultDuration(&config.Server.ShutdownTimeout, 15*time.Second)
	setDefault(&config.Storage.Backend, BackendMongo)
	setDefault(&config.Mongo.URI, "mongodb://localhost:27017")
	setDefault(&config.Mongo.Database, "bookstore")
	setDefault(&config.Mongo.Collection, "books")
	setDefaultDuration(&config.Mongo.ConnectTimeout, 5*time.Second)
	setDefault(&config.BoltDB.FilePath, "bookstore.bolt.db")
	setDefaultDuration(&config.BoltDB.Timeout, 5*time.Second)
	setDefault(&config.BoltDB.BucketName, "books")
	setDefault(&config.LogFile, "logs/bookstore.api.log")
}

func setDefault(field *string, value string) {
	if len(*field) == 0 {
		*field = value
	}
}

func setDefaultDuration(field *time.Duration, value time.Duration) {
	if *field == 0 {
		*field = value
	}
}

// LoadAndInitConfigs loads in order the configs from various predefined
// sources then builds the App configuration data.
func LoadAndInitConfigs(gitCommit, gitTag, buildTime string) (*Config, error) {
	config := &Config{}
	if err := LoadConfigFile("./config.yml", config); err != nil {
		return config, fmt.Errorf("failed to load configurations from file: %s", err)
	}

	// Optional environment file, for development setups.
	_ = godotenv.Load("./config.env")

	// Use environment variables with prefix `BSA`.
	if err := LoadConfigEnvs("BSA", config); err != nil {
		return config, fmt.Errorf("failed to load configurations from environment: %s", err)
	}

	InitConfig(config, gitCommit, gitTag, buildTime)
	return config, nil
}
