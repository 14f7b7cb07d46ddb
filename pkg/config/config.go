// Package config loads the optional TOML configuration file. Everything has
// a sensible default, so the file only needs to exist when the defaults are
// wrong for a deployment (private catalog mirror, non-standard data paths,
// offline sites).
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/skao-tools/arraymodel/pkg/catalog"
	"github.com/skao-tools/arraymodel/pkg/errors"
	"github.com/skao-tools/arraymodel/pkg/pipeline"
	"github.com/skao-tools/arraymodel/pkg/telescope"
)

// Config is the on-disk configuration.
type Config struct {
	// CatalogURL is the array-configuration catalog endpoint.
	CatalogURL string `toml:"catalog_url"`

	// TemplatePath is the antenna template file.
	TemplatePath string `toml:"template_path"`

	// RotationsPath is the array-coordinates file with rotation angles.
	RotationsPath string `toml:"rotations_path"`

	// CacheDir is where cached catalog responses live. Empty means the
	// user cache directory.
	CacheDir string `toml:"cache_dir"`

	// Offline switches the catalog to the local coordinates file. The
	// array center must then be configured too, since the file does not
	// carry it.
	Offline bool               `toml:"offline"`
	Center  telescope.Geodetic `toml:"center"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		CatalogURL:    catalog.DefaultBaseURL,
		TemplatePath:  pipeline.DefaultTemplatePath,
		RotationsPath: pipeline.DefaultRotationsPath,
	}
}

// DefaultPath returns the standard config file location,
// ~/.config/arraymodel/config.toml (respecting XDG_CONFIG_HOME).
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "arraymodel", "config.toml")
}

// Load reads a config file, layering it over the defaults. A missing file
// at the default location is not an error; a missing file named explicitly
// is.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
		if path == "" {
			return cfg, nil
		}
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if os.IsNotExist(err) {
			if explicit {
				return nil, errors.New(errors.ErrCodeFileNotFound, "config file not found: %s", path)
			}
			return cfg, nil
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse config %s", path)
	}
	return cfg, nil
}
