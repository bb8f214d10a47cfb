package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment overrides, applied after the file is decoded.
const (
	EnvAddr     = "ARSIGN_ADDR"
	EnvLogLevel = "ARSIGN_LOG_LEVEL"
)

type Config struct {
	Addr     string         `yaml:"addr" validate:"required"`
	LogLevel string         `yaml:"log_level" validate:"oneof=debug info warn error"`
	Wallets  []WalletConfig `yaml:"wallets" validate:"dive"`
}

type WalletConfig struct {
	Path  string `yaml:"path" validate:"required"`
	Label string `yaml:"label"`
}

func Default() *Config {
	return &Config{Addr: ":8080", LogLevel: "info"}
}

// Load reads the YAML file at fname over the defaults. An empty fname skips the file.
// A .env file in the working directory is loaded first if present.
func Load(fname string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("err loading .env: %w", err)
	}

	cfg := Default()
	if fname != "" {
		if err := decodeFile(fname, cfg); err != nil {
			return nil, err
		}
	}
	if v := os.Getenv(EnvAddr); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func decodeFile(fname string, cfg *Config) error {
	file, err := os.Open(fname)
	if err != nil {
		return fmt.Errorf("err opening file: %w", err)
	}
	defer file.Close()

	dec := yaml.NewDecoder(file)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("err decoding cfg file (%s): %w", fname, err)
	}
	return nil
}
