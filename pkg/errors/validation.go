package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateInspectionName validates a saved-inspection name for safety and
// correctness. It rejects names that could be used for path traversal when
// the file-backed store maps names to files.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No path separators or traversal sequences
//   - Maximum length of 128 characters
func ValidateInspectionName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "inspection name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidName, "inspection name too long (max 128 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "inspection name contains invalid control characters")
		}
	}

	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidName, "inspection name cannot contain path separators")
	}
	if strings.Contains(name, "..") {
		return New(ErrCodeInvalidName, "inspection name cannot contain traversal sequences (..)")
	}

	return nil
}

// fieldNameRegex matches reasonable top-level field names in compliance
// documents. Field names come from user-supplied JSON, so anything printable
// is allowed, but the reserved collections field supplied via flags or config
// is held to this stricter form.
var fieldNameRegex = regexp.MustCompile(`^[^\x00-\x1f]{1,256}$`)

// ValidateFieldName validates a configured field name (e.g., the reserved
// collections field).
func ValidateFieldName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "field name cannot be empty")
	}
	if !fieldNameRegex.MatchString(name) {
		return New(ErrCodeInvalidName, "invalid field name: %q", name)
	}
	return nil
}
