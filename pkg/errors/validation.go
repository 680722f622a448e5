package errors

import (
	"strings"
	"unicode"
)

// ValidatePersonID validates a person or house identifier before it enters
// the store or an edge record.
//
// The validation rules are intentionally conservative:
//   - No empty ids
//   - No control characters or whitespace
//   - No path separators (ids end up in file names and URLs)
//   - Maximum length of 128 characters
func ValidatePersonID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidPerson, "person id cannot be empty")
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidPerson, "person id too long (max 128 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidPerson, "person id contains invalid characters")
		}
	}

	if strings.ContainsAny(id, "/\\") {
		return New(ErrCodeInvalidPerson, "person id cannot contain path separators")
	}

	return nil
}

// ValidateDatasetPath validates a dataset file path for safety.
// It prevents path traversal and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
func ValidateDatasetPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	return nil
}
