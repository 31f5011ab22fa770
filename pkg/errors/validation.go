package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateNetworkName validates a network or style name before it is sent to
// Cytoscape. Names end up in URL paths and session titles.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No slashes (they would split the URL path)
//   - Maximum length of 256 characters
func ValidateNetworkName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidNetwork, "network name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidNetwork, "network name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidNetwork, "network name contains invalid control characters")
		}
	}

	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidNetwork, "network name cannot contain slashes: %q", name)
	}

	return nil
}

// ValidateColumnName validates a node table column name.
func ValidateColumnName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidColumn, "column name cannot be empty")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidColumn, "column name %q contains control characters", name)
		}
	}
	return nil
}

// ValidatePath validates a local file path given on the command line.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid control characters")
		}
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}

var hexColorRegex = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// ValidateColor validates a Cytoscape color value ("#RRGGBB").
func ValidateColor(color string) error {
	if !hexColorRegex.MatchString(color) {
		return New(ErrCodeInvalidInput, "invalid color %q (want #RRGGBB)", color)
	}
	return nil
}
