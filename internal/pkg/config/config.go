package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"ledbox-netcfg/internal/pkg/logging"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every validation error.
var ErrInvalidConfig = errors.New("invalid configuration")

const (
	DefaultInterface    = "wlan0"
	DefaultHostnameFile = "/etc/hostname"
)

// Config represents the main configuration structure
type Config struct {
	Logging      logging.LogConfig `yaml:"logging"`
	Interface    string            `yaml:"interface"`
	HostnameFile string            `yaml:"hostname_file"`
	Device       Settings          `yaml:"device"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Logging: logging.LogConfig{
			Level:  "info",
			Format: "text",
		},
		Interface:    DefaultInterface,
		HostnameFile: DefaultHostnameFile,
		Device:       Default(),
	}
}

// Load builds the configuration from defaults, then the YAML file at
// configPath (skipped when empty), then LEDBOX_* environment variables.
func Load(configPath string) (*Config, error) {
	config := DefaultConfig()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}

		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(config); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
		}
	}

	if err := applyEnv(&config.Device); err != nil {
		return nil, fmt.Errorf("failed to load environment overrides: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Interface) == "" {
		return invalidf("interface name is required")
	}
	if c.HostnameFile == "" {
		return invalidf("hostname file path is required")
	}
	return c.Device.Validate()
}

func invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}
