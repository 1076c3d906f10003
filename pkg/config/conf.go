package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	configFileName = "config.yaml"
	dirMode        = 0700
	fileMode       = 0600

	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"

	defaultLogLevel    = "info"
	defaultTolerance   = 1e-2
	defaultParallelism = 4
)

var ErrInvalidConfig = errors.New("invalid config")

// Config represents app config object.
type Config struct {
	LogLevel    string  `yaml:"log_level"`
	LogFile     string  `yaml:"log_file,omitempty"`
	Format      string  `yaml:"format"`
	Tolerance   float64 `yaml:"tolerance"`
	Parallelism int     `yaml:"parallelism"`
}

// Default returns the config written on first run.
func Default() *Config {
	return &Config{
		LogLevel:    defaultLogLevel,
		Format:      FormatText,
		Tolerance:   defaultTolerance,
		Parallelism: defaultParallelism,
	}
}

// Validate fills zero values with defaults and rejects unknown values.
func (c *Config) Validate() error {
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
	if c.Tolerance == 0 {
		c.Tolerance = defaultTolerance
	}
	if c.Parallelism == 0 {
		c.Parallelism = defaultParallelism
	}

	f, err := ParseFormat(c.Format)
	if err != nil {
		return err
	}
	c.Format = f

	if c.Tolerance < 0 {
		return fmt.Errorf("%w: tolerance must be positive: %v", ErrInvalidConfig, c.Tolerance)
	}
	if c.Parallelism < 0 {
		return fmt.Errorf("%w: parallelism must be positive: %d", ErrInvalidConfig, c.Parallelism)
	}
	return nil
}

// ParseFormat normalizes an output format name. Empty selects text.
func ParseFormat(v string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", FormatText, "txt":
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: unsupported format: %s", ErrInvalidConfig, v)
	}
}

func Save(dirPath string, c *Config) error {
	if dirPath == "" {
		return errors.New("config directory required")
	}
	if c == nil {
		return errors.New("config required")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	path := filepath.Join(dirPath, configFileName)
	if err := os.WriteFile(path, b, fileMode); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}
	return nil
}

// ReadOrCreate reads app config from directory or creates a new one.
func ReadOrCreate(dirPath string) (*Config, error) {
	if dirPath == "" {
		return nil, errors.New("config directory required")
	}

	if err := os.MkdirAll(dirPath, dirMode); err != nil {
		return nil, fmt.Errorf("failed to create dir %s: %w", dirPath, err)
	}

	path := filepath.Join(dirPath, configFileName)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		slog.Debug("creating default config", "path", path)
		if err := Save(dirPath, Default()); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("error unmarshalling config file %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return &c, nil
}

// GetOrCreateHomeDir returns the named directory under the user home.
// The create flag is set to true if the directory was created.
func GetOrCreateHomeDir(name string) (path string, created bool, err error) {
	if name == "" {
		return "", false, errors.New("name cannot be empty")
	}

	if !strings.HasPrefix(name, ".") {
		name = "." + name
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", false, fmt.Errorf("failed to get user home dir: %w", err)
	}
	slog.Debug("home dir", "path", home)

	dir := filepath.Join(home, name)
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		slog.Debug("creating dir", "path", dir)
		if err := os.Mkdir(dir, dirMode); err != nil {
			return "", false, fmt.Errorf("failed to create dir %s: %w", dir, err)
		}
		created = true
	}
	return dir, created, nil
}
