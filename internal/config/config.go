// Package config loads the runtime configuration that tells the resolver
// where to look: the filesystem root, the install-tree root, optional
// enumeration-cache settings, and logging level.
//
// This is distinct from a package's own default.toml (§4.C), which is
// per-package configuration read by internal/metafile, not tool
// configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/habicore/pkgcore/internal/install"
	"github.com/habicore/pkgcore/internal/logging"
)

// Config is the runtime configuration for resolver tooling (cmd/habpkg and
// any future caller embedding internal/install).
type Config struct {
	// FSRootPath is the filesystem root under which package data lives.
	FSRootPath string `yaml:"fs_root_path"`

	// PackageRootPath overrides the default "<fs_root>/hab/pkgs" install
	// tree root for enumeration (ResolvedPackageRootPath, used by
	// "habpkg list"). Empty means derive it from FSRootPath. install.Load
	// and install.LoadAtLeast do not read it: they always resolve under
	// "<fs_root>/hab/pkgs".
	PackageRootPath string `yaml:"package_root_path"`

	// EnumerationCachePath, when non-empty, enables the SQLite-backed
	// enumeration cache at this path. Empty disables caching.
	EnumerationCachePath string `yaml:"enumeration_cache_path"`

	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string `yaml:"log_level"`

	// LogFormat is "text" or "json".
	LogFormat string `yaml:"log_format"`
}

// Default returns a Config with every field at its documented default:
// fs_root_path "/", info-level text logging, no cache.
func Default() Config {
	return Config{
		FSRootPath: "/",
		LogLevel:   "info",
		LogFormat:  "text",
	}
}

// Load reads path as YAML and overlays it onto Default(). A missing file is
// not an error: Load returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.FSRootPath == "" {
		cfg.FSRootPath = "/"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	return cfg, nil
}

// ResolvedPackageRootPath returns PackageRootPath if set, else the default
// "<fs_root>/hab/pkgs" derived from FSRootPath.
func (c Config) ResolvedPackageRootPath() string {
	if c.PackageRootPath != "" {
		return c.PackageRootPath
	}
	return install.PackageRootPath(c.FSRootPath)
}

// ConfigureLogging builds a logger from LogLevel/LogFormat and installs it
// as the package-level default, so every caller using the bare
// logging.Debug/Info/Warn/Error functions picks it up.
func ConfigureLogging(c Config) {
	logger := logging.New()
	logger.SetLevel(logging.ParseLevel(c.LogLevel))
	logger.SetJSON(c.LogFormat == "json")
	logging.SetDefault(logger)
}
