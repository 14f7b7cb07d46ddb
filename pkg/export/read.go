package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/skao-tools/arraymodel/pkg/errors"
	"github.com/skao-tools/arraymodel/pkg/telescope"
)

// ReadModel reconstructs a layout from a model directory written by
// [WriteModel]. Station labels, angles, and feed angles come from the
// manifest; positions and antenna offsets come from the text files so
// the result reflects what simulation tools actually consume.
func ReadModel(dir string) (*telescope.Layout, error) {
	m, err := readManifest(dir)
	if err != nil {
		return nil, err
	}

	tel, err := telescope.Parse(m.Telescope)
	if err != nil {
		return nil, err
	}

	positions, err := readStationPositions(filepath.Join(dir, "layout.txt"))
	if err != nil {
		return nil, err
	}
	if len(positions) != len(m.Stations) {
		return nil, errors.New(errors.ErrCodeInvalidData,
			"%s: layout.txt has %d stations, manifest has %d", dir, len(positions), len(m.Stations))
	}

	l := &telescope.Layout{
		Telescope:  tel,
		Center:     m.Center,
		FeedAngles: m.FeedAngles,
		Stations:   make([]telescope.StationLayout, len(m.Stations)),
	}
	for i, ms := range m.Stations {
		offsets, err := readOffsets(filepath.Join(stationDir(dir, i), "layout.txt"))
		if err != nil {
			return nil, err
		}
		l.Stations[i] = telescope.StationLayout{
			Label:        ms.Label,
			East:         positions[i].East,
			North:        positions[i].North,
			Up:           positions[i].Up,
			AngleDeg:     ms.AngleDeg,
			FeedAngleDeg: ms.FeedAngleDeg,
			Offsets:      offsets,
		}
	}
	return l, nil
}

func readManifest(dir string) (*Manifest, error) {
	path := filepath.Join(dir, "manifest.json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "not a model directory: %s missing", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read %s", path)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s", path)
	}
	return &m, nil
}

func readStationPositions(path string) ([]telescope.Station, error) {
	lines, err := readLines(path)
	if err != nil {
		return nil, err
	}
	out := make([]telescope.Station, len(lines))
	for i, line := range lines {
		fields, err := splitFloats(line, 3)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidData, err, "%s line %d", path, i+1)
		}
		// layout.txt stores north, east, up.
		out[i] = telescope.Station{North: fields[0], East: fields[1], Up: fields[2]}
	}
	return out, nil
}

func readOffsets(path string) ([]telescope.Point, error) {
	lines, err := readLines(path)
	if err != nil {
		return nil, err
	}
	out := make([]telescope.Point, len(lines))
	for i, line := range lines {
		fields, err := splitFloats(line, 2)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidData, err, "%s line %d", path, i+1)
		}
		out[i] = telescope.Point{X: fields[0], Y: fields[1]}
	}
	return out, nil
}

func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "missing model file: %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read %s", path)
	}
	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

func splitFloats(line string, n int) ([]float64, error) {
	parts := strings.Split(line, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("expected %d comma-separated values, got %d", n, len(parts))
	}
	out := make([]float64, n)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
