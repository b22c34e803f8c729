// Package config loads the project settings file (docset.toml) of a source directory.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const FileName = "docset.toml"
const EnvPrefix = "DOCSET"

// Config mirrors docset.toml. Relative paths are interpreted relative to the source directory.
type Config struct {
	// SourceSuffix lists the recognized document suffixes, order is significant.
	SourceSuffix []string `mapstructure:"source_suffix" toml:"source_suffix"`
	// ExcludePatterns are glob patterns of paths ignored during discovery.
	ExcludePatterns []string `mapstructure:"exclude_patterns" toml:"exclude_patterns"`
	// Snapshot is the file the document set of the last run is kept in.
	Snapshot string `mapstructure:"snapshot" toml:"snapshot"`
}

func Defaults() Config {
	return Config{
		SourceSuffix:    []string{".rst"},
		ExcludePatterns: []string{"_build", "Thumbs.db", ".DS_Store"},
		Snapshot:        filepath.ToSlash(filepath.Join("_build", ".docset.snapshot")),
	}
}

// Load reads the configuration for the given source directory.
// If configFile is empty docset.toml inside the source directory is used if it exists, otherwise defaults apply.
// An explicitly given configFile has to exist. Environment variables (DOCSET_SOURCE_SUFFIX etc.) override file values.
// The path of the file actually read is returned, empty if none.
func Load(sourceDir string, configFile string) (cfg *Config, resolvedPath string, err error) {
	defaults := Defaults()
	v := viper.New()
	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetDefault("source_suffix", defaults.SourceSuffix)
	v.SetDefault("exclude_patterns", defaults.ExcludePatterns)
	v.SetDefault("snapshot", defaults.Snapshot)

	if configFile != "" {
		if _, statErr := os.Stat(configFile); statErr != nil {
			return nil, "", fmt.Errorf("config file not found: %w", statErr)
		}
		resolvedPath = configFile
	} else if candidate := filepath.Join(sourceDir, FileName); fileExists(candidate) {
		resolvedPath = candidate
	}

	if resolvedPath != "" {
		v.SetConfigFile(resolvedPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, "", fmt.Errorf("failed to read config %s: %w", resolvedPath, err)
		}
	}

	cfg = &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", fmt.Errorf("invalid config: %w", err)
	}
	return cfg, resolvedPath, nil
}

// Validate checks the constraints the file format cannot express.
func (c *Config) Validate() error {
	if len(c.SourceSuffix) == 0 {
		return errors.New("source_suffix must not be empty")
	}
	seen := make(map[string]bool, len(c.SourceSuffix))
	for _, suffix := range c.SourceSuffix {
		if suffix == "" {
			return errors.New("source_suffix contains an empty entry")
		}
		if seen[suffix] {
			return fmt.Errorf("source_suffix %q declared twice", suffix)
		}
		seen[suffix] = true
	}
	return nil
}

// SnapshotPath yields the system-native snapshot location, resolved against the source directory.
func (c *Config) SnapshotPath(sourceDir string) string {
	path := filepath.FromSlash(c.Snapshot)
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(sourceDir, path)
}

// Write stores the configuration as TOML, refusing to replace an existing file unless overwrite is set.
func Write(path string, cfg Config, overwrite bool) error {
	if !overwrite && fileExists(path) {
		return fmt.Errorf("config file exists already (%s)", path)
	}
	content, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
