package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

// writeCoords writes an array-coordinates fixture and returns its path.
func writeCoords(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "low_array_coords.dat")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}
