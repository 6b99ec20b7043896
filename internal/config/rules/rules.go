// Package rules defines structured validation errors for Doc Forge
// configuration files.
package rules

import (
	"fmt"
	"strings"
)

// ConfigSpecURL documents the docforge.toml format.
const ConfigSpecURL = "https://doc-forge.readthedocs.io/en/latest/reference/configuration.html"

// ValidationError represents a configuration validation error with context.
type ValidationError struct {
	Field      string
	Message    string
	Path       string
	Suggestion string
}

func (e *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration error at %s: %s", e.Path, e.Message))
	if e.Suggestion != "" {
		sb.WriteString(fmt.Sprintf("\nSuggestion: %s", e.Suggestion))
	}
	return sb.String()
}

// UnknownKey creates a ValidationError for keys not defined by the config schema.
func UnknownKey(key string) *ValidationError {
	return &ValidationError{
		Field:      key,
		Message:    fmt.Sprintf("unknown configuration key '%s'", key),
		Path:       key,
		Suggestion: fmt.Sprintf("Remove the key or check its spelling against %s", ConfigSpecURL),
	}
}

// UnsupportedFormat creates a ValidationError for unsupported output formats.
func UnsupportedFormat(format string, supported []string) *ValidationError {
	return &ValidationError{
		Field:      "formats",
		Message:    fmt.Sprintf("unsupported output format '%s'", format),
		Path:       "docs.formats",
		Suggestion: fmt.Sprintf("Supported formats: %s", strings.Join(supported, ", ")),
	}
}

// MissingField creates a ValidationError for required fields that are empty.
func MissingField(field, path, suggestion string) *ValidationError {
	return &ValidationError{
		Field:      field,
		Message:    fmt.Sprintf("'%s' must not be empty", field),
		Path:       path,
		Suggestion: suggestion,
	}
}

// InvalidValue creates a ValidationError for out-of-range or malformed values.
func InvalidValue(field, path, message, suggestion string) *ValidationError {
	return &ValidationError{
		Field:      field,
		Message:    message,
		Path:       path,
		Suggestion: suggestion,
	}
}

// PortRange validates that a port is in the valid range (1-65535).
// Returns nil if valid, *ValidationError if invalid.
func PortRange(port int, path string) *ValidationError {
	if port < 1 || port > 65535 {
		return InvalidValue("port", path,
			fmt.Sprintf("port %d is outside the valid range 1-65535", port),
			"Choose a port between 1 and 65535")
	}
	return nil
}

// AbsolutePath validates that a configured directory is repository-relative.
// Returns nil if valid, *ValidationError if invalid.
func AbsolutePath(field, path, value string) *ValidationError {
	if strings.HasPrefix(value, "/") || strings.Contains(value, "..") {
		return InvalidValue(field, path,
			fmt.Sprintf("'%s' must be a path relative to the repository root", value),
			"Use a plain relative path such as \"docs\"")
	}
	return nil
}
