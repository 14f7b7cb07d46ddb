package datafile

import (
	"bufio"
	"os"
	"strings"

	"github.com/skao-tools/arraymodel/pkg/errors"
	"github.com/skao-tools/arraymodel/pkg/telescope"
)

// ArrayCoords is the parsed array-coordinates file: one row per station of
// the full array, carrying the as-built rotation angle and, when present,
// tangent-plane coordinates and the assembly stage the station first
// appears in.
type ArrayCoords struct {
	Rows []CoordRow
}

// CoordRow is one station record from the array-coordinates file.
type CoordRow struct {
	Label       string
	East        float64
	North       float64
	Up          float64
	RotationDeg float64

	// Stage is the telescope configuration the station first appears in.
	// Valid only when HasStage is true (the subarray column is optional).
	Stage    telescope.Telescope
	HasStage bool
}

// The file is CSV with an arbitrary preamble; the header row is located by
// the presence of both "label" and "rotation" columns.
var requiredColumns = []string{"label", "rotation"}

// ReadArrayCoords parses an array-coordinates file. Preamble lines before
// the header row are skipped; columns are matched by header name, so column
// order does not matter. Rows with fewer fields than the header are an
// INVALID_DATA error.
func ReadArrayCoords(path string) (*ArrayCoords, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open array coordinates %s", path)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	cols, lineNo, err := findHeader(scanner, path)
	if err != nil {
		return nil, err
	}

	coords := &ArrayCoords{}
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		row, err := parseRow(line, cols, path, lineNo)
		if err != nil {
			return nil, err
		}
		coords.Rows = append(coords.Rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read array coordinates %s", path)
	}

	if len(coords.Rows) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidData, "array coordinates %s contains no stations", path)
	}
	return coords, nil
}

// ReadRotations parses an array-coordinates file and returns just its
// rotation table.
func ReadRotations(path string) (*telescope.RotationTable, error) {
	coords, err := ReadArrayCoords(path)
	if err != nil {
		return nil, err
	}
	return coords.RotationTable()
}

// RotationTable builds the station → rotation-angle mapping from the rows.
func (c *ArrayCoords) RotationTable() (*telescope.RotationTable, error) {
	angles := make(map[string]float64, len(c.Rows))
	for _, row := range c.Rows {
		angles[row.Label] = row.RotationDeg
	}
	return telescope.NewRotationTable(angles)
}

// findHeader advances the scanner to the header row and returns the column
// index for each header name.
func findHeader(scanner *bufio.Scanner, path string) (map[string]int, int, error) {
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := splitCSV(scanner.Text())
		cols := make(map[string]int, len(fields))
		for i, name := range fields {
			cols[strings.ToLower(name)] = i
		}
		if hasColumns(cols, requiredColumns) {
			return cols, lineNo, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, errors.Wrap(errors.ErrCodeInternal, err, "read array coordinates %s", path)
	}
	return nil, 0, errors.New(errors.ErrCodeInvalidData,
		"%s: no header row with label and rotation columns", path)
}

func hasColumns(cols map[string]int, names []string) bool {
	for _, n := range names {
		if _, ok := cols[n]; !ok {
			return false
		}
	}
	return true
}

func parseRow(line string, cols map[string]int, path string, lineNo int) (CoordRow, error) {
	fields := splitCSV(line)

	get := func(name string) (string, bool) {
		i, ok := cols[name]
		if !ok || i >= len(fields) {
			return "", false
		}
		return fields[i], true
	}

	label, ok := get("label")
	if !ok || label == "" {
		return CoordRow{}, errors.New(errors.ErrCodeInvalidData, "%s:%d: missing station label", path, lineNo)
	}
	if err := errors.ValidateStationLabel(label); err != nil {
		return CoordRow{}, errors.Wrap(errors.ErrCodeInvalidData, err, "%s:%d", path, lineNo)
	}

	row := CoordRow{Label: label}

	rotStr, ok := get("rotation")
	if !ok {
		return CoordRow{}, errors.New(errors.ErrCodeInvalidData, "%s:%d: missing rotation angle", path, lineNo)
	}
	rot, err := parseFloat(rotStr)
	if err != nil {
		return CoordRow{}, errors.Wrap(errors.ErrCodeInvalidData, err, "%s:%d: bad rotation angle", path, lineNo)
	}
	row.RotationDeg = rot

	// Position columns are optional; they are only needed when the file
	// doubles as an offline station catalog.
	for name, dst := range map[string]*float64{"east": &row.East, "north": &row.North, "up": &row.Up} {
		if s, ok := get(name); ok && s != "" {
			v, err := parseFloat(s)
			if err != nil {
				return CoordRow{}, errors.Wrap(errors.ErrCodeInvalidData, err, "%s:%d: bad %s coordinate", path, lineNo, name)
			}
			*dst = v
		}
	}

	if s, ok := get("subarray"); ok && s != "" {
		stage, err := telescope.Parse(strings.TrimSpace(s))
		if err != nil {
			return CoordRow{}, errors.Wrap(errors.ErrCodeInvalidData, err, "%s:%d: bad subarray stage", path, lineNo)
		}
		row.Stage = stage
		row.HasStage = true
	}

	return row, nil
}

func splitCSV(line string) []string {
	fields := strings.Split(line, ",")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return fields
}
