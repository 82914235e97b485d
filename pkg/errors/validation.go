package errors

import (
	"math"
	"strings"
	"unicode"
)

// ValidateCanvas validates canvas dimensions for a layout computation.
// Width and height must be positive, finite numbers.
func ValidateCanvas(width, height float64) error {
	if width <= 0 || height <= 0 {
		return New(ErrCodeInvalidOperation, "canvas dimensions must be positive (got %gx%g)", width, height)
	}
	if math.IsInf(width, 0) || math.IsNaN(width) || math.IsInf(height, 0) || math.IsNaN(height) {
		return New(ErrCodeInvalidOperation, "canvas dimensions must be finite")
	}
	return nil
}

// ValidateSpacing validates a named spacing or margin value.
// Spacing values must be non-negative and finite.
func ValidateSpacing(name string, value float64) error {
	if value < 0 {
		return New(ErrCodeInvalidOperation, "%s must not be negative (got %g)", name, value)
	}
	if math.IsInf(value, 0) || math.IsNaN(value) {
		return New(ErrCodeInvalidOperation, "%s must be finite", name)
	}
	return nil
}

// ValidateFraction validates that a named value lies strictly inside (0, 1).
// Used for damping and similar simulation factors.
func ValidateFraction(name string, value float64) error {
	if !(value > 0 && value < 1) {
		return New(ErrCodeInvalidOperation, "%s must be in (0, 1) (got %g)", name, value)
	}
	return nil
}

// ValidatePath validates a document file path for safety.
// It prevents path traversal attacks and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No parent-directory traversal sequences
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	if len(path) > 500 {
		return New(ErrCodeInvalidPath, "path too long (max 500 characters)")
	}

	for _, r := range path {
		if r == 0 || (unicode.IsControl(r) && r != '\t') {
			return New(ErrCodeInvalidPath, "path contains invalid control characters")
		}
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path contains parent directory traversal")
	}

	return nil
}
