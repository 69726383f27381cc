package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// MaxSourceLength is the maximum accepted FPB document size in bytes.
// Documents beyond this size are rejected before parsing.
const MaxSourceLength = 1 << 20

// ValidateSource validates an FPB source document before it reaches the
// parser. It rejects oversized documents and ones carrying null bytes,
// which never occur in legitimate text input.
func ValidateSource(source string) error {
	if source == "" {
		return New(ErrCodeInvalidInput, "source cannot be empty")
	}
	if len(source) > MaxSourceLength {
		return New(ErrCodeSourceTooBig, "source too large (max %d bytes)", MaxSourceLength)
	}
	if strings.ContainsRune(source, '\x00') {
		return New(ErrCodeInvalidInput, "source contains null bytes")
	}
	return nil
}

// exportFormats are the formats the export and render endpoints accept.
var exportFormats = map[string]bool{
	"fpb": true,
	"xml": true,
	"svg": true,
	"pdf": true,
	"png": true,
	"dot": true,
}

// ValidateFormat validates an export format name.
func ValidateFormat(format string) error {
	if format == "" {
		return New(ErrCodeInvalidFormat, "format cannot be empty")
	}
	if !exportFormats[format] {
		return New(ErrCodeInvalidFormat, "unsupported format: %q", format)
	}
	return nil
}

// ValidateFormats validates a list of export format names.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// sessionIDRegex matches identifiers issued by the session store (UUIDs)
// while also accepting opaque alphanumeric IDs from older deployments.
var sessionIDRegex = regexp.MustCompile(`^[A-Za-z0-9-]{1,64}$`)

// ValidateSessionID validates a session identifier taken from a URL.
func ValidateSessionID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "session id cannot be empty")
	}
	if !sessionIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid session id: %q", id)
	}
	return nil
}

// ValidatePath validates an output file path for safety.
// It prevents path traversal attacks and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
func ValidatePath(path string) error {
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

// elementIDRegex matches valid FPB element identifiers: a letter or
// underscore followed by letters, digits, and underscores.
var elementIDRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidateElementID validates an FPB element identifier.
func ValidateElementID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "element id cannot be empty")
	}
	if len(id) > 128 {
		return New(ErrCodeInvalidInput, "element id too long (max 128 characters)")
	}
	if !elementIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid element id: %q", id)
	}
	return nil
}
