package export

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/skao-tools/arraymodel/pkg/errors"
	"github.com/skao-tools/arraymodel/pkg/telescope"
)

// MarshalLayout renders a layout as indented JSON.
func MarshalLayout(l *telescope.Layout) ([]byte, error) {
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "marshal layout")
	}
	return append(data, '\n'), nil
}

// WriteLayout writes a layout as indented JSON to w.
func WriteLayout(w io.Writer, l *telescope.Layout) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write layout")
	}
	return nil
}

// WriteLayoutFile writes a layout as JSON to path, creating parent
// directories as needed.
func WriteLayoutFile(path string, l *telescope.Layout) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "create directory %s", dir)
		}
	}
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
	}
	return nil
}

// ReadLayout decodes a JSON layout from r.
func ReadLayout(r io.Reader) (*telescope.Layout, error) {
	var l telescope.Layout
	dec := json.NewDecoder(r)
	if err := dec.Decode(&l); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode layout")
	}
	return &l, nil
}

// ReadLayoutFile reads a JSON layout from path.
func ReadLayoutFile(path string) (*telescope.Layout, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "layout file not found: %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "open %s", path)
	}
	defer f.Close()
	return ReadLayout(f)
}
