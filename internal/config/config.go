package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds planwatch configuration.
type Config struct {
	Server       string        `yaml:"server"`
	ServiceGroup string        `yaml:"service_group"`
	Output       string        `yaml:"output"`
	PollInterval time.Duration `yaml:"poll_interval"`
	Timeout      time.Duration `yaml:"timeout"`
}

type fileConfig struct {
	Server       string `yaml:"server"`
	ServiceGroup string `yaml:"service_group"`
	Output       string `yaml:"output"`
	PollInterval string `yaml:"poll_interval"`
	Timeout      string `yaml:"timeout"`
}

const configFile = "config.yaml"

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		Server:       "http://localhost:18080",
		Output:       "console",
		PollInterval: 2 * time.Second,
		Timeout:      5 * time.Minute,
	}
}

// Load resolves configuration with the following precedence (highest
// first):
//  1. PLANWATCH_SERVER environment variable
//  2. .planwatch/config.yaml in the current directory
//  3. Global ~/.config/planwatch/config.yaml
//  4. Built-in defaults
func Load() (*Config, error) {
	cfg := Defaults()

	if path := globalConfigPath(); path != "" {
		if err := mergeFile(cfg, path); err != nil {
			return nil, err
		}
	}

	if cwd, err := os.Getwd(); err == nil {
		local := filepath.Join(cwd, ".planwatch", configFile)
		if err := mergeFile(cfg, local); err != nil {
			return nil, err
		}
	}

	if server := os.Getenv("PLANWATCH_SERVER"); server != "" {
		cfg.Server = server
	}

	return cfg, nil
}

// mergeFile overlays values from path onto cfg. A missing file is not
// an error; a malformed one is.
func mergeFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}

	if fc.Server != "" {
		cfg.Server = fc.Server
	}
	if fc.ServiceGroup != "" {
		cfg.ServiceGroup = fc.ServiceGroup
	}
	if fc.Output != "" {
		cfg.Output = fc.Output
	}
	if fc.PollInterval != "" {
		d, err := time.ParseDuration(fc.PollInterval)
		if err != nil {
			return fmt.Errorf("parsing poll_interval in %s: %w", path, err)
		}
		cfg.PollInterval = d
	}
	if fc.Timeout != "" {
		d, err := time.ParseDuration(fc.Timeout)
		if err != nil {
			return fmt.Errorf("parsing timeout in %s: %w", path, err)
		}
		cfg.Timeout = d
	}

	return nil
}

func globalConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "planwatch", configFile)
}
