package utils

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// Config Server configuration, read from a YAML file with environment
// overrides for the secrets.
type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Database struct {
		Driver string `yaml:"driver"`
		Dsn    string `yaml:"dsn"`
	} `yaml:"database"`
	Auth struct {
		Secret             string `yaml:"secret"`
		TokenLifetimeHours int    `yaml:"token_lifetime_hours"`
	} `yaml:"auth"`
}

// NewConfig Read and validate the configuration at the given path.
func NewConfig(configPath string) (*Config, error) {
	config := &Config{}

	file, err := os.Open(configPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	if err := yaml.NewDecoder(file).Decode(config); err != nil {
		return nil, err
	}

	// Secrets can live in the environment (or a .env file) instead of the
	// config file.
	_ = godotenv.Load()
	if secret := os.Getenv("LABELSCOPE_JWT_SECRET"); secret != "" {
		config.Auth.Secret = secret
	}

	if config.Server.Port == "" {
		config.Server.Port = "8080"
	}
	if config.Database.Driver == "" {
		config.Database.Driver = "sqlite"
	}
	if config.Database.Dsn == "" {
		config.Database.Dsn = "labelscope.sqlite"
	}
	if config.Auth.TokenLifetimeHours <= 0 {
		config.Auth.TokenLifetimeHours = 24
	}
	if config.Auth.Secret == "" {
		return nil, fmt.Errorf("auth secret is not set in %s or LABELSCOPE_JWT_SECRET", configPath)
	}
	return config, nil
}

// ValidateConfigPath Make sure the config path points at a regular file.
func ValidateConfigPath(path string) error {
	s, err := os.Stat(path)
	if err != nil {
		return err
	}
	if s.IsDir() {
		return fmt.Errorf("'%s' is a directory, not a config file", path)
	}
	return nil
}

// ParseFlags Parse the command line into the config path and debug switch.
func ParseFlags() (string, bool, error) {
	var configPath string
	var debugMode bool

	flag.StringVar(&configPath, "config", "./config.yaml", "path to config file")
	flag.BoolVar(&debugMode, "debug", false, "run the server in debug mode")
	flag.Parse()

	if err := ValidateConfigPath(configPath); err != nil {
		return "", false, err
	}
	return configPath, debugMode, nil
}
