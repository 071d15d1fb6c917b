package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

type Config struct {
	MongoURI        string `envconfig:"MONGO_URI"`
	MongoDatabase   string `envconfig:"MONGO_DATABASE"`
	MongoCollection string `envconfig:"MONGO_COLLECTION" default:"products"`
	HTTPAddr        string `envconfig:"HTTP_ADDR"        default:":3000"`
	LogLevel        string `envconfig:"LOG_LEVEL"        default:"info"`
	StoreDriver     string `envconfig:"STORE_DRIVER"     default:"mongo"`
}

// LoadConfig reads envFile (if it exists) into the environment and then
// processes the environment. Variables already set win over the file.
func LoadConfig(envFile string, logger *logrus.Logger) (*Config, error) {
	if envFile != "" {
		err := godotenv.Load(envFile)
		if err != nil && !os.IsNotExist(err) {
			logger.Warnf("Error loading %s file (but continuing): %v", envFile, err)
		} else if err == nil {
			logger.Infof("Loaded configuration from %s file", envFile)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process configuration from environment variables: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	logger.Infof("Configuration loaded: HTTPAddr=%s, LogLevel=%s, StoreDriver=%s", cfg.HTTPAddr, cfg.LogLevel, cfg.StoreDriver)
	if cfg.MongoURI != "" {
		logger.Info("Configuration loaded: MONGO_URI is set")
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case DriverMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("configuration error: MONGO_URI is not set")
		}
		if c.MongoCollection == "" {
			return fmt.Errorf("configuration error: MONGO_COLLECTION is empty")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("configuration error: unknown STORE_DRIVER %q", c.StoreDriver)
	}
	return nil
}
