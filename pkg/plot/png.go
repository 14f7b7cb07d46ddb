package plot

import (
	"bytes"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/skao-tools/arraymodel/pkg/errors"
	"github.com/skao-tools/arraymodel/pkg/telescope"
)

// RenderPNG renders the layout as a PNG panel grid with the same geometry
// as [RenderSVG].
func RenderPNG(l *telescope.Layout, opts ...Option) ([]byte, error) {
	r := newRenderer(opts...)

	stations := selectStations(l, r.panels)
	reference := referenceStation(l, r.reference)
	extent := r.extent
	if extent <= 0 {
		extent = autoExtent(stations, reference)
	}

	cols, rows := gridDims(len(stations))
	dc := gg.NewContext(cols*r.panelSize, rows*r.panelSize)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	for i, s := range stations {
		px := float64((i % cols) * r.panelSize)
		py := float64((i / cols) * r.panelSize)
		drawPanel(dc, &s, reference, extent, r.panelSize, px, py, l.FeedAngles)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode PNG")
	}
	return buf.Bytes(), nil
}

func drawPanel(dc *gg.Context, s *telescope.StationLayout, reference *telescope.StationLayout, extent float64, size int, px, py float64, feedAngles bool) {
	dc.SetRGB255(0xd0, 0xd0, 0xd0)
	dc.SetLineWidth(1)
	dc.DrawRectangle(px+0.5, py+0.5, float64(size-1), float64(size-1))
	dc.Stroke()

	if reference != nil && reference.Label != s.Label {
		dc.SetRGB255(0xc0, 0xc0, 0xc0)
		for _, p := range reference.Offsets {
			x, y := panelPoint(p, extent, size)
			dc.DrawCircle(px+x, py+y, 2)
			dc.Stroke()
		}
	}

	dc.SetRGB255(0x1f, 0x77, 0xb4)
	for _, p := range s.Offsets {
		x, y := panelPoint(p, extent, size)
		dc.DrawCircle(px+x, py+y, 2)
		dc.Fill()
	}

	dc.SetRGB255(0x30, 0x30, 0x30)
	dc.DrawString(panelTitle(s, feedAngles), px+6, py+14)
}
