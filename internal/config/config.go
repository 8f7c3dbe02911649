package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no config file is named explicitly.
const DefaultPath = ".svgref.yaml"

type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

type AnalyzeConfig struct {
	Workers     int `yaml:"workers" validate:"gte=1,lte=256"`
	MaxDepth    int `yaml:"max_depth" validate:"gte=0"`
	MaxAttrs    int `yaml:"max_attrs" validate:"gte=0"`
	MaxElements int `yaml:"max_elements" validate:"gte=0"`
}

type IconsConfig struct {
	MaxDepth int  `yaml:"max_depth" validate:"gte=0,lte=64"`
	Validate bool `yaml:"validate"`
}

type Config struct {
	Log     LogConfig     `yaml:"log"`
	Analyze AnalyzeConfig `yaml:"analyze"`
	Icons   IconsConfig   `yaml:"icons"`
	Output  string        `yaml:"output" validate:"oneof=text json yaml"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Log:     LogConfig{Level: "info", Format: "text"},
		Analyze: AnalyzeConfig{Workers: 4},
		Icons:   IconsConfig{MaxDepth: 5, Validate: true},
		Output:  "text",
	}
}

// Load reads the YAML file at path over the defaults. When path is empty
// DefaultPath is tried and a missing file is not an error.
func Load(path string) (cfg *Config, err error) {
	optional := path == ""
	if optional {
		path = DefaultPath
	}
	f, err := os.Open(path)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("open config %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			cfg, err = nil, fmt.Errorf("close config %s: %w", path, closeErr)
		}
	}()

	cfg, err = Decode(f)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Decode reads YAML from r over the defaults and validates the result.
// Unknown keys are rejected.
func Decode(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field ranges and enumerations.
func (c *Config) Validate() error {
	return validate.Struct(c)
}
