// Package export writes generated layouts to disk: the telescope model
// directory tree consumed by beam simulation tools, and a JSON form for
// round trips between commands.
//
// The model directory layout is:
//
//	<dir>/position.txt          array center as "lon, lat" (WGS84 degrees)
//	<dir>/layout.txt            one station per line: "north, east, up"
//	<dir>/stationNNN/layout.txt antenna offsets, "x, y" with 5 decimals
//	<dir>/stationNNN/feed_angle.txt  feed angle repeated per antenna
//	<dir>/manifest.json         run metadata and station labels
//
// feed_angle.txt files are only written when the layout carries feed
// angles, i.e. when rotation was applied.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/skao-tools/arraymodel/pkg/errors"
	"github.com/skao-tools/arraymodel/pkg/telescope"
)

// Manifest records how and when a model directory was generated, and the
// station labels in directory order (the numbered station directories do
// not carry labels themselves).
type Manifest struct {
	RunID       string             `json:"run_id"`
	GeneratedAt time.Time          `json:"generated_at"`
	Telescope   string             `json:"telescope"`
	Center      telescope.Geodetic `json:"center"`
	FeedAngles  bool               `json:"feed_angles"`
	Stations    []ManifestStation  `json:"stations"`
}

// ManifestStation is the per-station metadata kept in the manifest.
type ManifestStation struct {
	Label        string  `json:"label"`
	AngleDeg     float64 `json:"angle_deg"`
	FeedAngleDeg float64 `json:"feed_angle_deg,omitempty"`
}

// WriteModel writes a layout as a telescope model directory. An existing
// directory at dir is replaced, matching the generator's run-to-run
// behavior; partial output from a failed run is not cleaned up.
func WriteModel(l *telescope.Layout, dir string) error {
	if err := errors.ValidateOutputDir(dir); err != nil {
		return err
	}
	if err := os.RemoveAll(dir); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "replace output directory %s", dir)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create output directory %s", dir)
	}

	if err := writePosition(l, dir); err != nil {
		return err
	}
	if err := writeStationPositions(l, dir); err != nil {
		return err
	}
	for i, sl := range l.Stations {
		if err := writeStation(l, &sl, stationDir(dir, i)); err != nil {
			return err
		}
	}
	return writeManifest(l, dir)
}

// stationDir returns the numbered directory for station index i,
// e.g. "station007".
func stationDir(dir string, i int) string {
	return filepath.Join(dir, fmt.Sprintf("station%03d", i))
}

func writePosition(l *telescope.Layout, dir string) error {
	line := formatFloat(l.Center.Lon) + ", " + formatFloat(l.Center.Lat)
	return writeTextFile(filepath.Join(dir, "position.txt"), line+"\n")
}

func writeStationPositions(l *telescope.Layout, dir string) error {
	var b strings.Builder
	for _, sl := range l.Stations {
		b.WriteString(formatFloat(sl.North))
		b.WriteString(", ")
		b.WriteString(formatFloat(sl.East))
		b.WriteString(", ")
		b.WriteString(formatFloat(sl.Up))
		b.WriteString("\n")
	}
	return writeTextFile(filepath.Join(dir, "layout.txt"), b.String())
}

func writeStation(l *telescope.Layout, sl *telescope.StationLayout, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create station directory %s", dir)
	}

	var b strings.Builder
	for _, p := range sl.Offsets {
		fmt.Fprintf(&b, "%.5f, %.5f\n", p.X, p.Y)
	}
	if err := writeTextFile(filepath.Join(dir, "layout.txt"), b.String()); err != nil {
		return err
	}

	if !l.FeedAngles {
		return nil
	}
	var f strings.Builder
	for range sl.Offsets {
		fmt.Fprintf(&f, "%.5f\n", sl.FeedAngleDeg)
	}
	return writeTextFile(filepath.Join(dir, "feed_angle.txt"), f.String())
}

func writeManifest(l *telescope.Layout, dir string) error {
	m := Manifest{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Telescope:   l.Telescope.String(),
		Center:      l.Center,
		FeedAngles:  l.FeedAngles,
		Stations:    make([]ManifestStation, len(l.Stations)),
	}
	for i, sl := range l.Stations {
		m.Stations[i] = ManifestStation{Label: sl.Label, AngleDeg: sl.AngleDeg}
		if l.FeedAngles {
			m.Stations[i].FeedAngleDeg = sl.FeedAngleDeg
		}
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "marshal manifest")
	}
	return writeTextFile(filepath.Join(dir, "manifest.json"), string(data)+"\n")
}

func writeTextFile(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
	}
	return nil
}

// formatFloat renders a coordinate with the shortest representation that
// round-trips exactly.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
