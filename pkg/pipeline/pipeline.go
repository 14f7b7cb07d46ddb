// Package pipeline provides the core layout-generation pipeline: fetch the
// station catalog, generate the rotated layout, and export it in the
// requested formats. The CLI is a thin wrapper around a [Runner]; keeping
// the stages here keeps behavior identical however the pipeline is invoked.
//
// The pipeline consists of three stages:
//
//  1. Fetch: resolve the station set for a telescope configuration from the
//     catalog service (or an offline coordinates file).
//  2. Generate: rotate the antenna template per station and derive feed
//     angles.
//  3. Export: write the model directory and/or serialized renderings.
//
// Each stage can be run independently or as part of the complete pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Telescope:    telescope.AA1,
//	    TemplatePath: "data/antenna_template.dat",
//	    RotationsPath: "data/low_array_coords.dat",
//	    OutputDir:    "telescope_model",
//	}
//	result, err := runner.Execute(ctx, opts)
package pipeline

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/skao-tools/arraymodel/pkg/catalog"
	"github.com/skao-tools/arraymodel/pkg/errors"
	"github.com/skao-tools/arraymodel/pkg/telescope"
)

// Defaults shared by every entry point.
const (
	// DefaultOutputDir is where the model directory is written.
	DefaultOutputDir = "telescope_model"

	// DefaultTemplatePath is the antenna template shipped alongside the
	// binary.
	DefaultTemplatePath = "data/antenna_template.dat"

	// DefaultRotationsPath is the array-coordinates file carrying the
	// as-built rotation angles.
	DefaultRotationsPath = "data/low_array_coords.dat"

	// DefaultPlotPanels is how many station panels a rendered plot shows.
	DefaultPlotPanels = 16
)

// Format constants for output formats.
const (
	FormatModel = "model"
	FormatJSON  = "json"
	FormatSVG   = "svg"
	FormatPNG   = "png"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatModel: true,
	FormatJSON:  true,
	FormatSVG:   true,
	FormatPNG:   true,
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: model, json, svg, png)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// Options contains all configuration for the generation pipeline.
type Options struct {
	// Fetch options
	Telescope telescope.Telescope `json:"telescope"`
	Refresh   bool                `json:"refresh,omitempty"`

	// Generate options
	NoStationRotation bool   `json:"no_station_rotation,omitempty"`
	NoAntennaRotation bool   `json:"no_antenna_rotation,omitempty"`
	TemplatePath      string `json:"template_path,omitempty"`
	RotationsPath     string `json:"rotations_path,omitempty"`

	// Export options
	OutputDir string   `json:"output_dir,omitempty"`
	Formats   []string `json:"formats,omitempty"`
	Panels    int      `json:"panels,omitempty"`

	// Runtime options (not serialized)
	Logger   *log.Logger      `json:"-"`
	Provider catalog.Provider `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. Idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForFetch(); err != nil {
		return err
	}
	if err := o.ValidateForGenerate(); err != nil {
		return err
	}
	if err := o.ValidateForExport(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForFetch checks required fields for the catalog fetch.
func (o *Options) ValidateForFetch() error {
	if o.Provider == nil {
		return errors.New(errors.ErrCodeInvalidInput, "catalog provider is required")
	}
	o.setLoggerDefault()
	return nil
}

// ValidateForGenerate checks fields for layout generation.
func (o *Options) ValidateForGenerate() error {
	if o.TemplatePath == "" {
		o.TemplatePath = DefaultTemplatePath
	}
	if o.RotationsPath == "" {
		o.RotationsPath = DefaultRotationsPath
	}
	o.setLoggerDefault()
	return nil
}

// ValidateForExport checks fields for the export stage.
func (o *Options) ValidateForExport() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatModel}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.OutputDir == "" {
		o.OutputDir = DefaultOutputDir
	}
	if o.Panels == 0 {
		o.Panels = DefaultPlotPanels
	}
	o.setLoggerDefault()
	return nil
}

// GenerateOptions returns the rotation switches for the generate stage.
func (o *Options) GenerateOptions() telescope.GenerateOptions {
	return telescope.GenerateOptions{
		NoStationRotation: o.NoStationRotation,
		NoAntennaRotation: o.NoAntennaRotation,
	}
}

// WantsFormat reports whether format is among the requested outputs.
func (o *Options) WantsFormat(format string) bool {
	for _, f := range o.Formats {
		if f == format {
			return true
		}
	}
	return false
}

func (o *Options) setLoggerDefault() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}
