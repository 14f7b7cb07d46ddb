package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// ValidateStationLabel validates a station label for safety and correctness.
// Labels come from catalog responses and rotation files and are used as map
// keys and in log output, so the rules are intentionally conservative:
//   - No empty labels
//   - No control characters or null bytes
//   - No path separators or traversal sequences
//   - Maximum length of 64 characters
func ValidateStationLabel(label string) error {
	if label == "" {
		return New(ErrCodeInvalidStation, "station label cannot be empty")
	}

	if len(label) > 64 {
		return New(ErrCodeInvalidStation, "station label too long (max 64 characters)")
	}

	for _, r := range label {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidStation, "station label contains control characters")
		}
	}

	for _, pattern := range []string{"..", "/", "\\", "\x00"} {
		if strings.Contains(label, pattern) {
			return New(ErrCodeInvalidStation, "station label contains invalid sequence: %q", pattern)
		}
	}

	return nil
}

// ValidateOutputDir validates a model output directory path.
// The generator removes and recreates this directory, so refuse anything
// that could clobber the filesystem root or the working directory itself.
func ValidateOutputDir(dir string) error {
	if dir == "" {
		return New(ErrCodeInvalidPath, "output directory cannot be empty")
	}

	clean := filepath.Clean(dir)
	if clean == "/" || clean == "." || clean == ".." {
		return New(ErrCodeInvalidPath, "refusing to use %q as output directory", dir)
	}
	if strings.Contains(clean, "\x00") {
		return New(ErrCodeInvalidPath, "output directory contains null byte")
	}

	return nil
}
