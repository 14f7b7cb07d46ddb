package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/skao-tools/arraymodel/pkg/catalog"
	"github.com/skao-tools/arraymodel/pkg/errors"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.CatalogURL != catalog.DefaultBaseURL {
		t.Errorf("CatalogURL = %q", cfg.CatalogURL)
	}
	if cfg.Offline {
		t.Error("offline should default to false")
	}
}

func TestLoadLayersOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `catalog_url = "https://mirror.example/api/v1"
offline = true

[center]
lon = 116.7
lat = -26.9
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.CatalogURL != "https://mirror.example/api/v1" {
		t.Errorf("CatalogURL = %q", cfg.CatalogURL)
	}
	if !cfg.Offline || cfg.Center.Lat != -26.9 {
		t.Errorf("config = %+v", cfg)
	}
	// Unset keys keep their defaults.
	if cfg.TemplatePath == "" {
		t.Error("TemplatePath default lost")
	}
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("error code = %q, want FILE_NOT_FOUND", errors.GetCode(err))
	}
}

func TestLoadRejectsBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("catalog_url = [broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("error code = %q, want INVALID_FORMAT", errors.GetCode(err))
	}
}
