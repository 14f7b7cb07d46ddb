package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/skao-tools/arraymodel/pkg/cache"
	"github.com/skao-tools/arraymodel/pkg/catalog"
	"github.com/skao-tools/arraymodel/pkg/config"
	"github.com/skao-tools/arraymodel/pkg/httputil"
	"github.com/skao-tools/arraymodel/pkg/pipeline"
	"github.com/skao-tools/arraymodel/pkg/telescope"
)

// generateOpts holds the command-line flags for the generate command.
type generateOpts struct {
	noRot      bool   // disable station rotation
	noFeedRot  bool   // disable antenna (feed) rotation
	output     string // model directory / artifact base path
	formatsStr string // comma-separated output formats
	refresh    bool   // bypass catalog cache
	noCache    bool   // disable caching entirely
	offline    bool   // use the local coordinates file as catalog
	configPath string // explicit config file
	template   string // antenna template override
	rotations  string // array-coordinates override
	panels     int    // plot panels for svg/png formats
}

// generateCommand creates the generate command.
func (c *CLI) generateCommand() *cobra.Command {
	opts := generateOpts{}

	cmd := &cobra.Command{
		Use:   "generate [telescope]",
		Short: "Generate a telescope array layout model",
		Long: `Generate a telescope array layout model.

Fetches the station set of a telescope configuration (AA0.5, AA1, AA2,
AAstar or AA4) from the array-configuration catalog, rotates the shared
antenna template by each station's as-built angle relative to S8-1, and
writes the layout in the requested formats.

Run without an argument to pick the configuration interactively.

Examples:
  arraymodel generate AA1                     # model directory (default)
  arraymodel generate AA4 --no-rot            # unrotated layout
  arraymodel generate AA2 -f model,json,svg   # multiple outputs
  arraymodel generate AAstar --offline        # local coordinates file`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				t   telescope.Telescope
				err error
			)
			if len(args) == 1 {
				t, err = telescope.Parse(args[0])
			} else {
				t, err = pickTelescope()
			}
			if err != nil {
				return err
			}
			return c.runGenerate(cmd.Context(), t, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.noRot, "no-rot", false, "disable station rotation (all stations take the reference orientation)")
	cmd.Flags().BoolVar(&opts.noFeedRot, "no-feed-rot", false, "disable antenna rotation (stations share the unrotated template)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output directory for the model, base path for other formats")
	cmd.Flags().StringVarP(&opts.formatsStr, "format", "f", "", "output format(s): model (default), json, svg, png (comma-separated)")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass the catalog cache")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.offline, "offline", false, "read stations from the local coordinates file instead of the catalog")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "config file (default ~/.config/arraymodel/config.toml)")
	cmd.Flags().StringVar(&opts.template, "template", "", "antenna template file (overrides config)")
	cmd.Flags().StringVar(&opts.rotations, "rotations", "", "array-coordinates file with rotation angles (overrides config)")
	cmd.Flags().IntVar(&opts.panels, "panels", 0, "station panels in svg/png plots")

	return cmd
}

// runGenerate executes the fetch → generate → export pipeline.
func (c *CLI) runGenerate(ctx context.Context, t telescope.Telescope, opts generateOpts) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	applyFlagOverrides(cfg, &opts)

	provider, err := c.newProvider(cfg, opts)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(opts.noCache || opts.offline)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	popts := pipeline.Options{
		Telescope:         t,
		NoStationRotation: opts.noRot,
		NoAntennaRotation: opts.noFeedRot,
		TemplatePath:      cfg.TemplatePath,
		RotationsPath:     cfg.RotationsPath,
		OutputDir:         modelDir(opts.output),
		Formats:           parseFormats(opts.formatsStr),
		Refresh:           opts.refresh,
		Panels:            opts.panels,
		Logger:            c.Logger,
		Provider:          provider,
	}

	spinner := newSpinner(ctx, fmt.Sprintf("Generating %s layout...", t))
	spinner.Start()

	result, err := runner.Execute(ctx, popts)
	if err != nil {
		spinner.StopWithError("Generation failed")
		return err
	}
	spinner.Stop()

	printSuccess("Generated %s layout", t)
	printStats(result.Stats.StationCount, result.Stats.AntennaCount, result.CacheInfo.FetchHit)
	if !result.Layout.FeedAngles {
		printWarning("rotation disabled: feed angles omitted")
	}

	if result.ModelDir != "" {
		printFile(result.ModelDir + string(filepath.Separator))
	}
	return writeArtifacts(result.Artifacts, popts.Formats, artifactBase(opts.output, t))
}

// newProvider picks the catalog source: the HTTP client, or the local
// coordinates file when running offline.
func (c *CLI) newProvider(cfg *config.Config, opts generateOpts) (catalog.Provider, error) {
	if opts.offline || cfg.Offline {
		return catalog.NewFileProvider(cfg.RotationsPath, cfg.Center), nil
	}

	var hc *httputil.Cache
	if !opts.noCache {
		if dir, err := cacheDir(); err == nil {
			if fc, err := httputil.NewCache(filepath.Join(dir, "http"), cache.TTLHTTP); err == nil {
				hc = fc.Namespace("catalog")
			}
		}
	}
	return catalog.NewClient(cfg.CatalogURL, hc, catalog.WithRefresh(opts.refresh)), nil
}

// applyFlagOverrides layers explicit flags over the loaded config.
func applyFlagOverrides(cfg *config.Config, opts *generateOpts) {
	if opts.template != "" {
		cfg.TemplatePath = opts.template
	}
	if opts.rotations != "" {
		cfg.RotationsPath = opts.rotations
	}
}

// modelDir resolves the model output directory from the --output flag.
func modelDir(output string) string {
	if output == "" {
		return pipeline.DefaultOutputDir
	}
	return output
}

// artifactBase resolves the base path for serialized artifacts: the --output
// flag if given, otherwise a name derived from the telescope.
func artifactBase(output string, t telescope.Telescope) string {
	if output != "" {
		return output
	}
	return "layout_" + sanitizeName(t.String())
}

// sanitizeName makes a telescope identifier filesystem-friendly
// ("AA0.5" → "AA0_5").
func sanitizeName(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch r {
		case '.', '*', '/', '\\':
			out = append(out, '_')
		default:
			out = append(out, r)
		}
	}
	return string(out)
}

// writeArtifacts writes serialized artifacts next to the model directory,
// one file per format: <base>.json, <base>.svg, <base>.png.
func writeArtifacts(artifacts map[string][]byte, formats []string, base string) error {
	for _, format := range formats {
		data, ok := artifacts[format]
		if !ok {
			continue
		}
		path := base + "." + format
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	return nil
}
