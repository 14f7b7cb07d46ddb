package plot

import (
	"bytes"
	"fmt"

	"github.com/skao-tools/arraymodel/pkg/telescope"
)

const (
	antennaColor   = "#1f77b4"
	referenceColor = "#c0c0c0"
	panelBorder    = "#d0d0d0"
	labelColor     = "#303030"
)

// RenderSVG renders the layout as an SVG panel grid.
func RenderSVG(l *telescope.Layout, opts ...Option) []byte {
	r := newRenderer(opts...)

	stations := selectStations(l, r.panels)
	reference := referenceStation(l, r.reference)
	extent := r.extent
	if extent <= 0 {
		extent = autoExtent(stations, reference)
	}

	cols, rows := gridDims(len(stations))
	width := cols * r.panelSize
	height := rows * r.panelSize

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n",
		width, height, width, height)
	buf.WriteString(`  <rect width="100%" height="100%" fill="white"/>` + "\n")

	for i, s := range stations {
		px := (i % cols) * r.panelSize
		py := (i / cols) * r.panelSize
		renderPanel(&buf, &s, reference, extent, r.panelSize, px, py, l.FeedAngles)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderPanel(buf *bytes.Buffer, s *telescope.StationLayout, reference *telescope.StationLayout, extent float64, size, px, py int, feedAngles bool) {
	fmt.Fprintf(buf, `  <g transform="translate(%d,%d)">`+"\n", px, py)
	fmt.Fprintf(buf, `    <rect x="0.5" y="0.5" width="%d" height="%d" fill="none" stroke="%s"/>`+"\n",
		size-1, size-1, panelBorder)

	// Reference offsets first so the station's own antennas draw on top.
	if reference != nil && reference.Label != s.Label {
		for _, p := range reference.Offsets {
			x, y := panelPoint(p, extent, size)
			fmt.Fprintf(buf, `    <circle cx="%.1f" cy="%.1f" r="2" fill="none" stroke="%s"/>`+"\n",
				x, y, referenceColor)
		}
	}
	for _, p := range s.Offsets {
		x, y := panelPoint(p, extent, size)
		fmt.Fprintf(buf, `    <circle cx="%.1f" cy="%.1f" r="2" fill="%s"/>`+"\n", x, y, antennaColor)
	}

	fmt.Fprintf(buf, `    <text x="6" y="14" font-family="sans-serif" font-size="11" fill="%s">%s</text>`+"\n",
		labelColor, panelTitle(s, feedAngles))
	buf.WriteString("  </g>\n")
}

// panelTitle labels a panel with the station and the rotation it carries.
func panelTitle(s *telescope.StationLayout, feedAngles bool) string {
	if feedAngles {
		return fmt.Sprintf("%s (%.1f°)", s.Label, s.AngleDeg)
	}
	return s.Label
}

func referenceStation(l *telescope.Layout, label string) *telescope.StationLayout {
	if label == "" {
		return nil
	}
	return l.Station(label)
}
