package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/roach88/stylusport/internal/ir"
)

// DefaultConfigFile is read from the working directory when --config is not
// given and the file exists.
const DefaultConfigFile = ".stylusport.yaml"

// Config holds defaults for command flags. A flag set on the command line
// always wins over the file.
type Config struct {
	Format      string `yaml:"format"`
	FailOn      string `yaml:"fail_on"`
	Jobs        int    `yaml:"jobs"`
	DB          string `yaml:"db"`
	SchemaCheck bool   `yaml:"schema_check"`
}

// LoadConfig reads a YAML config file. Unknown keys are rejected.
// An empty file yields the zero Config.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Format != "" && !slices.Contains(ValidFormats, c.Format) {
		return fmt.Errorf("format %q: must be one of %v", c.Format, ValidFormats)
	}
	if c.FailOn != "" {
		if _, err := ir.ParseSeverity(c.FailOn); err != nil {
			return fmt.Errorf("fail_on: %w", err)
		}
	}
	if c.Jobs < 0 {
		return fmt.Errorf("jobs must be non-negative, got %d", c.Jobs)
	}
	return nil
}

// resolveConfig loads the explicit config path, or the default file when it
// exists. A missing default file is not an error.
func resolveConfig(explicit string) (Config, string, error) {
	if explicit != "" {
		cfg, err := LoadConfig(explicit)
		return cfg, explicit, err
	}
	if _, err := os.Stat(DefaultConfigFile); err != nil {
		return Config{}, "", nil
	}
	cfg, err := LoadConfig(DefaultConfigFile)
	return cfg, DefaultConfigFile, err
}
