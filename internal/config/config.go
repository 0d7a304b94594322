package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Transport  TransportConfig  `yaml:"transport"`
	Auth       AuthConfig       `yaml:"auth"`
	DB         DBConfig         `yaml:"db"`
	Storage    StorageConfig    `yaml:"storage"`
	Generation GenerationConfig `yaml:"generation"`
	Log        LogConfig        `yaml:"log"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type TransportConfig struct {
	Mode string `yaml:"mode"` // "stdio" or "http"
}

type AuthConfig struct {
	Enabled bool `yaml:"enabled"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type StorageConfig struct {
	Root   string `yaml:"root"`
	Bucket string `yaml:"bucket"`
}

type GenerationConfig struct {
	ModelCallTimeout time.Duration `yaml:"model_call_timeout"`
}

// UnmarshalYAML accepts Go duration strings ("90s", "2m") for the model
// call timeout.
func (g *GenerationConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		ModelCallTimeout string `yaml:"model_call_timeout"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.ModelCallTimeout == "" {
		return nil
	}
	timeout, err := time.ParseDuration(raw.ModelCallTimeout)
	if err != nil {
		return fmt.Errorf("invalid model_call_timeout: %w", err)
	}
	g.ModelCallTimeout = timeout
	return nil
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Transport: TransportConfig{
			Mode: "stdio",
		},
		DB: DBConfig{
			Path: "dialectic.db",
		},
		Storage: StorageConfig{
			Root:   "artifacts",
			Bucket: "content",
		},
		Generation: GenerationConfig{
			ModelCallTimeout: 5 * time.Minute,
		},
		Log: LogConfig{
			Level: "info",
		},
	}

	if path := os.Getenv("DIALECTIC_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("DIALECTIC_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("DIALECTIC_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid DIALECTIC_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if mode := os.Getenv("DIALECTIC_TRANSPORT_MODE"); mode != "" {
		cfg.Transport.Mode = mode
	}
	if authStr := os.Getenv("DIALECTIC_AUTH_ENABLED"); authStr != "" {
		enabled, err := strconv.ParseBool(authStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid DIALECTIC_AUTH_ENABLED: %w", err)
		}
		cfg.Auth.Enabled = enabled
	}
	if dbPath := os.Getenv("DIALECTIC_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if root := os.Getenv("DIALECTIC_STORAGE_ROOT"); root != "" {
		cfg.Storage.Root = root
	}
	if bucket := os.Getenv("DIALECTIC_STORAGE_BUCKET"); bucket != "" {
		cfg.Storage.Bucket = bucket
	}
	if timeoutStr := os.Getenv("DIALECTIC_MODEL_CALL_TIMEOUT"); timeoutStr != "" {
		timeout, err := time.ParseDuration(timeoutStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid DIALECTIC_MODEL_CALL_TIMEOUT: %w", err)
		}
		cfg.Generation.ModelCallTimeout = timeout
	}
	if level := os.Getenv("DIALECTIC_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}

	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
