// Package config provides configuration loading for tabsolver sessions
// and the command line tools.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tabsolver/tabsolver/pkg/errors"
	"github.com/tabsolver/tabsolver/pkg/format"
)

// Options holds session defaults loadable from a YAML file or the
// environment.
type Options struct {
	// LogLevel sets the logger verbosity (debug, info, warn, error)
	LogLevel string `yaml:"log_level" json:"log_level"`

	// LogEncoding selects the log output format (json or console)
	LogEncoding string `yaml:"log_encoding" json:"log_encoding"`

	// Interactive selects the initial visibility mode for new sessions
	Interactive bool `yaml:"interactive" json:"interactive"`

	// IndexFormat names the default index formatting mode
	// (default, disabled, identity)
	IndexFormat string `yaml:"index_format" json:"index_format"`
}

// DefaultOptions returns the conventional defaults: info-level JSON
// logging, batched visibility, sanitizing name formatting.
func DefaultOptions() *Options {
	return &Options{
		LogLevel:    "info",
		LogEncoding: "json",
		Interactive: false,
		IndexFormat: "default",
	}
}

// Validate checks the options for recognizable values.
func (o *Options) Validate() error {
	switch o.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return errors.Newf(errors.ErrorTypeConfig, "unknown log level %q", o.LogLevel)
	}
	switch o.LogEncoding {
	case "json", "console":
	default:
		return errors.Newf(errors.ErrorTypeConfig, "unknown log encoding %q", o.LogEncoding)
	}
	if _, err := format.ModeFromString(o.IndexFormat); err != nil {
		return err
	}
	return nil
}

// Mode returns the configured index formatting mode.
func (o *Options) Mode() (format.Mode, error) {
	return format.ModeFromString(o.IndexFormat)
}

// Load loads a configuration from a YAML file, substituting ${VAR_NAME}
// references with environment variable values.
func Load(filePath string, config interface{}) error {
	data, err := os.ReadFile(filePath) //nolint:gosec // G304: File path is controlled by caller and validated
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	content := substituteEnvVars(string(data))

	if err := yaml.Unmarshal([]byte(content), config); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	return nil
}

// substituteEnvVars replaces ${VAR_NAME} with environment variable values
func substituteEnvVars(content string) string {
	for {
		start := strings.Index(content, "${")
		if start == -1 {
			break
		}
		end := strings.Index(content[start:], "}")
		if end == -1 {
			break
		}
		end += start

		varName := content[start+2 : end]
		envValue := os.Getenv(varName)
		content = content[:start] + envValue + content[end+1:]
	}
	return content
}
