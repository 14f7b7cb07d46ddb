// Package datafile reads the two static reference files the generator
// depends on: the antenna template of the reference station and the array
// coordinates file that carries per-station rotation angles.
package datafile

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/skao-tools/arraymodel/pkg/errors"
	"github.com/skao-tools/arraymodel/pkg/telescope"
)

// ReadTemplate reads an antenna template file: one antenna per line as
// comma-separated x, y coordinates in metres. Additional columns are
// ignored, as are blank lines and lines starting with '#'.
func ReadTemplate(path string) (telescope.Template, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open antenna template %s", path)
	}
	defer f.Close()

	var tmpl telescope.Template
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, ",")
		if len(fields) < 2 {
			return nil, errors.New(errors.ErrCodeInvalidData,
				"%s:%d: expected at least x, y columns", path, lineNo)
		}
		x, err := parseFloat(fields[0])
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidData, err, "%s:%d: bad x coordinate", path, lineNo)
		}
		y, err := parseFloat(fields[1])
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidData, err, "%s:%d: bad y coordinate", path, lineNo)
		}
		tmpl = append(tmpl, telescope.Point{X: x, Y: y})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read antenna template %s", path)
	}

	if len(tmpl) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidData, "antenna template %s contains no antennas", path)
	}
	return tmpl, nil
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}
