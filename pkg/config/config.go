// Package config handles loading and managing forkscope configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration for forkscope.
type Config struct {
	Columns ColumnsConfig `yaml:"columns"`
	Scoring ScoringConfig `yaml:"scoring"`
	Output  OutputConfig  `yaml:"output"`
	Publish PublishConfig `yaml:"publish"`
}

// ColumnsConfig names the special columns of an experiment matrix.
type ColumnsConfig struct {
	ForkCount     string `yaml:"fork_count"`
	List          string `yaml:"list"`
	ListSeparator string `yaml:"list_separator"`
	Delimiter     string `yaml:"delimiter"` // single character; default ","
}

// ScoringConfig controls scoring behavior.
type ScoringConfig struct {
	Policy string `yaml:"policy"` // mismatch, neutral, addonly
}

// OutputConfig controls report rendering.
type OutputConfig struct {
	Format string `yaml:"format"` // text, json, markdown, prom
	Trace  string `yaml:"trace"`  // text, log, none
}

// PublishConfig controls where finished artifacts are uploaded.
type PublishConfig struct {
	Target    string `yaml:"target"` // s3://bucket/prefix, gs://bucket/prefix, or a directory
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"` // S3-compatible endpoint (MinIO)
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Columns: ColumnsConfig{
			ForkCount:     "num_forks",
			List:          "ENABLED_OPS",
			ListSeparator: "-",
			Delimiter:     ",",
		},
		Scoring: ScoringConfig{
			Policy: "mismatch",
		},
		Output: OutputConfig{
			Format: "text",
			Trace:  "text",
		},
	}
}

// Load reads a config file from the given path.
// If the file does not exist, it returns the default config.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	if c.Columns.ForkCount == "" {
		return fmt.Errorf("columns.fork_count must not be empty")
	}
	if len([]rune(c.Columns.Delimiter)) > 1 {
		return fmt.Errorf("columns.delimiter must be a single character, got %q", c.Columns.Delimiter)
	}
	return nil
}

// Comma returns the CSV delimiter rune, or 0 for the default.
func (c *Config) Comma() rune {
	for _, r := range c.Columns.Delimiter {
		return r
	}
	return 0
}

// ApplyEnv overrides publish settings from FORKSCOPE_* environment variables.
func (c *Config) ApplyEnv() {
	c.Publish.Target = envOrDefault("FORKSCOPE_PUBLISH_TARGET", c.Publish.Target)
	c.Publish.Region = envOrDefault("FORKSCOPE_PUBLISH_REGION", c.Publish.Region)
	c.Publish.Endpoint = envOrDefault("FORKSCOPE_PUBLISH_ENDPOINT", c.Publish.Endpoint)
	c.Publish.AccessKey = envOrDefault("FORKSCOPE_PUBLISH_ACCESS_KEY", c.Publish.AccessKey)
	c.Publish.SecretKey = envOrDefault("FORKSCOPE_PUBLISH_SECRET_KEY", c.Publish.SecretKey)
}

// Marshal renders the config as YAML with secrets masked.
func (c *Config) Marshal() ([]byte, error) {
	out := *c
	if out.Publish.SecretKey != "" {
		out.Publish.SecretKey = "********"
	}
	return yaml.Marshal(&out)
}

// FindConfigFile looks for .forkscope/config.yaml in the given directory
// and its parents, returning the path if found, or "" if not.
func FindConfigFile(dir string) string {
	for {
		candidate := filepath.Join(dir, ".forkscope", "config.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
