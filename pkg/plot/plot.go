// Package plot renders a generated layout as a grid of per-station scatter
// panels: each panel shows one station's antenna offsets around the station
// origin, optionally with the reference station's unrotated offsets overlaid
// for comparison. Output is SVG or PNG.
package plot

import (
	"math"

	"github.com/skao-tools/arraymodel/pkg/telescope"
)

// Rendering defaults.
const (
	DefaultPanels    = 16
	DefaultPanelSize = 220
)

// Option configures a render call.
type Option func(*renderer)

type renderer struct {
	panels    int
	panelSize int
	reference string
	extent    float64
}

// WithPanels caps the number of station panels. Layouts with more stations
// are sampled evenly across the array.
func WithPanels(n int) Option { return func(r *renderer) { r.panels = n } }

// WithPanelSize sets the edge length of each panel in pixels.
func WithPanelSize(px int) Option { return func(r *renderer) { r.panelSize = px } }

// WithReference overlays the named station's offsets on every panel.
// An empty label disables the overlay.
func WithReference(label string) Option { return func(r *renderer) { r.reference = label } }

// WithExtent fixes the half-width of each panel in metres. Zero picks the
// extent automatically from the largest offset in the layout.
func WithExtent(m float64) Option { return func(r *renderer) { r.extent = m } }

func newRenderer(opts ...Option) renderer {
	r := renderer{
		panels:    DefaultPanels,
		panelSize: DefaultPanelSize,
		reference: telescope.ReferenceStation,
	}
	for _, opt := range opts {
		opt(&r)
	}
	if r.panels < 1 {
		r.panels = 1
	}
	if r.panelSize < 40 {
		r.panelSize = 40
	}
	return r
}

// selectStations picks the stations to draw. When the layout has more
// stations than panels they are sampled at even stride so the panels span
// the whole array instead of just its head.
func selectStations(l *telescope.Layout, max int) []telescope.StationLayout {
	n := len(l.Stations)
	if n <= max {
		return l.Stations
	}
	out := make([]telescope.StationLayout, 0, max)
	for i := 0; i < max; i++ {
		out = append(out, l.Stations[i*n/max])
	}
	return out
}

// gridDims returns the panel grid shape: near-square, wide before tall.
func gridDims(n int) (cols, rows int) {
	if n == 0 {
		return 0, 0
	}
	cols = int(math.Ceil(math.Sqrt(float64(n))))
	rows = (n + cols - 1) / cols
	return cols, rows
}

// autoExtent returns a panel half-width that fits every antenna offset in
// the layout with a little margin, so all panels share one scale.
func autoExtent(stations []telescope.StationLayout, reference *telescope.StationLayout) float64 {
	max := 0.0
	scan := func(pts []telescope.Point) {
		for _, p := range pts {
			if v := math.Abs(p.X); v > max {
				max = v
			}
			if v := math.Abs(p.Y); v > max {
				max = v
			}
		}
	}
	for _, s := range stations {
		scan(s.Offsets)
	}
	if reference != nil {
		scan(reference.Offsets)
	}
	if max == 0 {
		return 1
	}
	return max * 1.1
}

// panelPoint maps an offset in metres to pixel coordinates inside a panel,
// east right and north up.
func panelPoint(p telescope.Point, extent float64, size int) (x, y float64) {
	half := float64(size) / 2
	scale := half / extent
	return half + p.X*scale, half - p.Y*scale
}
