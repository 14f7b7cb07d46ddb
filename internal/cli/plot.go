package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/skao-tools/arraymodel/pkg/export"
	"github.com/skao-tools/arraymodel/pkg/pipeline"
	"github.com/skao-tools/arraymodel/pkg/plot"
	"github.com/skao-tools/arraymodel/pkg/telescope"
)

// plotCommand creates the plot command for rendering an existing layout.
func (c *CLI) plotCommand() *cobra.Command {
	var (
		output     string
		formatsStr string
		panels     int
		reference  string
	)

	cmd := &cobra.Command{
		Use:   "plot <layout.json|model-dir>",
		Short: "Render a generated layout as station panels",
		Long: `Render a generated layout as a grid of per-station scatter panels.

Accepts either a layout.json file (from 'generate -f json') or a model
directory (from 'generate'). Each panel shows one station's antenna
offsets with the reference station's unrotated offsets overlaid, so
rotation differences are visible at a glance.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats := parseFormats(formatsStr)
			if len(formats) == 1 && formats[0] == pipeline.FormatModel {
				formats = []string{pipeline.FormatSVG}
			}
			for _, f := range formats {
				if f != pipeline.FormatSVG && f != pipeline.FormatPNG {
					return fmt.Errorf("plot supports svg and png, not %q", f)
				}
			}
			return c.runPlot(args[0], output, formats, panels, reference)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png (comma-separated)")
	cmd.Flags().IntVar(&panels, "panels", plot.DefaultPanels, "number of station panels")
	cmd.Flags().StringVar(&reference, "reference", telescope.ReferenceStation, "station overlaid on every panel (empty to disable)")

	return cmd
}

// runPlot loads the layout and renders it.
func (c *CLI) runPlot(input, output string, formats []string, panels int, reference string) error {
	layout, err := loadLayout(input)
	if err != nil {
		return err
	}

	opts := []plot.Option{plot.WithPanels(panels), plot.WithReference(reference)}

	for _, format := range formats {
		var data []byte
		switch format {
		case pipeline.FormatSVG:
			data = plot.RenderSVG(layout, opts...)
		case pipeline.FormatPNG:
			data, err = plot.RenderPNG(layout, opts...)
			if err != nil {
				return err
			}
		}
		path := plotPath(input, output, format, len(formats) > 1)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}

	printSuccess("Plotted %s (%d stations)", layout.Telescope, layout.StationCount())
	return nil
}

// loadLayout reads a layout from either a JSON file or a model directory.
func loadLayout(input string) (*telescope.Layout, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, fmt.Errorf("load layout %s: %w", input, err)
	}
	if info.IsDir() {
		return export.ReadModel(input)
	}
	return export.ReadLayoutFile(input)
}

// plotPath derives the output path for one rendered format.
func plotPath(input, output, format string, multi bool) string {
	if output != "" {
		if multi {
			return output + "." + format
		}
		return output
	}
	base := strings.TrimSuffix(input, ".json")
	base = strings.TrimSuffix(base, "/")
	return base + "." + format
}
