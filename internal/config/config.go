package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML values like "30s" decode cleanly.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}

	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config holds console configuration. Values are read from the YAML config
// file and overridden by flags.
type Config struct {
	// Server is the credential gateway base URL.
	Server string `yaml:"server"`
	// Timeout bounds each gateway request.
	Timeout Duration `yaml:"timeout"`
	// StateDir is where the session credential is persisted.
	// Empty means ~/.turnstilectl/
	StateDir string `yaml:"state_dir"`
	Debug    bool   `yaml:"debug"`
}

// Default returns the configuration used when no config file exists.
func Default() Config {
	return Config{
		Server:  "http://localhost:3000",
		Timeout: Duration(30 * time.Second),
	}
}

// Load reads the config file at path, falling back to
// ~/.turnstilectl/config.yaml and then to defaults when no file exists.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return cfg, nil
		}
		path = filepath.Join(home, ".turnstilectl", "config.yaml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.Server == "" {
		cfg.Server = Default().Server
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = Default().Timeout
	}

	return cfg, nil
}
