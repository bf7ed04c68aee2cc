// Package config loads and validates the nbrelink configuration.
package config

import (
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/nbrelink/internal/foundation/errors"
)

// DefaultPath is the config file looked up when -c is not given.
const DefaultPath = "config.yaml"

// DefaultArchiveMarker is the substring that shields a line from rewriting
// when the config does not name one.
const DefaultArchiveMarker = "gemini-1.5-archive"

// Config represents the application configuration.
type Config struct {
	Root          string     `yaml:"root"`           // document tree to scan
	Extension     string     `yaml:"extension"`      // document file extension
	Repository    Repository `yaml:"repository"`     // target repository of pinned links
	Branches      []string   `yaml:"branches"`       // named revision tokens; empty uses main/master/old
	ArchiveMarker string     `yaml:"archive_marker"` // lines mentioning this substring are left alone
	Summary       string     `yaml:"summary"`        // scan summary file path
}

// Repository identifies the repository whose pinned links get rewritten.
// Owner/Name may be left empty; they are then derived from the tree's git
// origin remote.
type Repository struct {
	Host  string `yaml:"host"`
	Owner string `yaml:"owner"`
	Name  string `yaml:"name"`
}

// Load loads configuration from the specified file. A missing file at the
// default path yields the built-in defaults (repository coordinates are then
// derived from the git remote); a missing file anywhere else is an error.
func Load(configPath string) (*Config, error) {
	// .env values feed the ${VAR} expansion below; absence is fine.
	loadEnvFile()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if configPath == DefaultPath {
			cfg := &Config{}
			cfg.ApplyDefaults()
			return cfg, nil
		}
		return nil, errors.ConfigError("configuration file not found").
			WithContext("path", configPath).
			Build()
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to read config file").
			WithContext("path", configPath).
			Build()
	}

	// Expand environment variables in the YAML content.
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to unmarshal config").
			WithContext("path", configPath).
			Build()
	}

	cfg.ApplyDefaults()
	return &cfg, nil
}

// ApplyDefaults fills the fields the file may omit.
func (c *Config) ApplyDefaults() {
	if c.Root == "" {
		c.Root = "."
	}
	if c.Extension == "" {
		c.Extension = ".ipynb"
	}
	if c.Repository.Host == "" {
		c.Repository.Host = "github.com"
	}
	if c.ArchiveMarker == "" {
		c.ArchiveMarker = DefaultArchiveMarker
	}
	if c.Summary == "" {
		c.Summary = "links_to_update.txt"
	}
}

// Validate checks that a run can be built from the config. Called after the
// git-remote fallback had its chance to fill the repository coordinates.
func (c *Config) Validate() error {
	if c.Repository.Owner == "" || c.Repository.Name == "" {
		return errors.ConfigError("repository owner and name are required (set them in the config or run inside a clone with an origin remote)").
			WithContext("host", c.Repository.Host).
			Build()
	}
	if c.Root == "" {
		return errors.ConfigError("root directory is required").Build()
	}
	return nil
}

// loadEnvFile loads environment variables from .env/.env.local. Existing
// process environment variables are not overwritten; the first file that
// parses wins.
func loadEnvFile() {
	for _, envPath := range []string{".env", ".env.local"} {
		if err := godotenv.Load(envPath); err == nil {
			return
		}
	}
}
