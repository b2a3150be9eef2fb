package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/mcncl/pytyper/internal/models"
	"gopkg.in/yaml.v3"
)

// Indent styles for generated code.
const (
	IndentTab    = "tab"
	IndentSpaces = "spaces"
)

// Config represents the complete configuration for pytyper
type Config struct {
	RootName string       `yaml:"root_name"`
	Style    models.Style `yaml:"style"`
	Output   OutputConfig `yaml:"output"`
	Dev      DevConfig    `yaml:"dev"`
}

// OutputConfig controls what is generated and how it is laid out
type OutputConfig struct {
	IncludeNested       bool   `yaml:"include_nested"`
	IncludeDeserializer bool   `yaml:"include_deserializer"`
	Indent              string `yaml:"indent"`
	IndentWidth         int    `yaml:"indent_width"`
	FileHeader          string `yaml:"file_header"`
}

// DevConfig contains development/debug options
type DevConfig struct {
	Debug bool `yaml:"debug"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		RootName: "payload",
		Style:    models.StyleUnderscore,
		Output: OutputConfig{
			IncludeNested:       true,
			IncludeDeserializer: true,
			Indent:              IndentTab,
			IndentWidth:         4,
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults
	cfg := NewConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return cfg, nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".pytyper.yml", ".pytyper.yaml", "pytyper.yml", "pytyper.yaml"}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return ""
}

// Validate checks values that YAML decoding alone cannot.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.RootName) == "" {
		return fmt.Errorf("root_name must not be empty")
	}
	if _, err := models.ParseStyle(string(c.Style)); err != nil {
		return err
	}
	switch c.Output.Indent {
	case "", IndentTab:
	case IndentSpaces:
		if c.Output.IndentWidth < 1 || c.Output.IndentWidth > 16 {
			return fmt.Errorf("indent_width must be between 1 and 16, got %d", c.Output.IndentWidth)
		}
	default:
		return fmt.Errorf("unknown indent %q: expected %q or %q", c.Output.Indent, IndentTab, IndentSpaces)
	}
	return nil
}

// IndentString returns the text used for one level of indentation.
func (c *Config) IndentString() string {
	if c.Output.Indent == IndentSpaces {
		return strings.Repeat(" ", c.Output.IndentWidth)
	}
	return "\t"
}

// HeaderLines splits the configured file header into comment lines.
func (c *Config) HeaderLines() []string {
	header := strings.TrimSpace(c.Output.FileHeader)
	if header == "" {
		return nil
	}
	return strings.Split(header, "\n")
}

// Overrides holds values given on the command line. Nil pointers mean the
// flag was not set, so the config file value is kept.
type Overrides struct {
	RootName            string
	Style               string
	IncludeNested       *bool
	IncludeDeserializer *bool
	Debug               bool
}

// LoadConfigWithCLI loads config with CLI argument precedence
func LoadConfigWithCLI(configPath string, o Overrides) (*Config, error) {
	cfg := NewConfig()

	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	if o.RootName != "" {
		cfg.RootName = o.RootName
	}
	if o.Style != "" {
		style, err := models.ParseStyle(o.Style)
		if err != nil {
			return nil, err
		}
		cfg.Style = style
	}
	if o.IncludeNested != nil {
		cfg.Output.IncludeNested = *o.IncludeNested
	}
	if o.IncludeDeserializer != nil {
		cfg.Output.IncludeDeserializer = *o.IncludeDeserializer
	}
	if o.Debug {
		cfg.Dev.Debug = true
	}

	return cfg, nil
}

// DefaultOutputName suggests a Python module file name for the root class,
// e.g. ShippingAddress gives shipping_address.py.
func (c *Config) DefaultOutputName() string {
	name := strcase.ToSnake(c.RootName)
	if name == "" {
		name = "models"
	}
	return name + ".py"
}
