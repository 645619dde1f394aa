// Package config handles configuration loading and validation for kblayout.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"kblayout/internal/i18n"
	"kblayout/internal/layout"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Is lets errors.Is match ErrInvalidConfig.
func (e ValidationErrors) Is(target error) bool {
	return target == ErrInvalidConfig && e.HasErrors()
}

// ErrInvalidConfig is returned when validation fails.
var ErrInvalidConfig = errors.New("invalid configuration")

// ValidateConfig performs comprehensive validation of the configuration.
func ValidateConfig(c *Config) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var errs ValidationErrors

	// Validate version
	if c.Version < 1 || c.Version > Version {
		errs = append(errs, ValidationError{
			Field:   "version",
			Message: fmt.Sprintf("unsupported version %d (current: %d)", c.Version, Version),
		})
	}

	errs = append(errs, validateKeyboard(&c.Keyboard)...)
	errs = append(errs, validateLayouts(&c.Layouts)...)
	errs = append(errs, validateLogging(&c.Logging)...)

	if errs.HasErrors() {
		return errs
	}
	return nil
}

func validateKeyboard(k *KeyboardConfig) ValidationErrors {
	var errs ValidationErrors

	if !i18n.Language(k.Language).Valid() {
		errs = append(errs, *RangeError("keyboard.language", 0, len(i18n.Languages())-1))
	}

	switch k.Height {
	case layout.HeightSmall, layout.HeightMedium, layout.HeightLarge:
	default:
		// Unknown settings build at 1.0; flag them but keep going.
		errs = append(errs, ValidationError{
			Field:   "keyboard.height",
			Message: fmt.Sprintf("unknown height setting %d, using small", int(k.Height)),
		})
	}

	if k.Mode < 0 {
		errs = append(errs, ValidationError{
			Field:   "keyboard.mode",
			Message: "mode must not be negative",
		})
	}

	if k.DisplayWidth <= 0 {
		errs = append(errs, ValidationError{
			Field:   "keyboard.display_width",
			Message: "display width must be positive",
		})
	}

	if k.KeyHeight < 0 {
		errs = append(errs, ValidationError{
			Field:   "keyboard.key_height",
			Message: "key height must not be negative",
		})
	}

	if _, ok := layout.ParseInputAction(k.EnterAction); !ok {
		errs = append(errs, ValidationError{
			Field:   "keyboard.enter_action",
			Message: fmt.Sprintf("invalid enter action: %s (valid: default, search, next, go, send)", k.EnterAction),
		})
	}

	return errs
}

func validateLayouts(l *LayoutsConfig) ValidationErrors {
	var errs ValidationErrors

	if l.Dir == "" {
		errs = append(errs, *RequiredFieldError("layouts.dir"))
	} else if info, err := os.Stat(expandPath(l.Dir)); err != nil {
		// The built-in layout covers a missing directory.
		errs = append(errs, ValidationError{
			Field:   "layouts.dir",
			Message: fmt.Sprintf("directory not readable: %v", err),
		})
	} else if !info.IsDir() {
		errs = append(errs, ValidationError{
			Field:   "layouts.dir",
			Message: "not a directory",
		})
	}

	if l.DebounceMs < 0 || l.DebounceMs > 60000 {
		errs = append(errs, *RangeError("layouts.debounce_ms", 0, 60000))
	}

	return errs
}

func validateLogging(l *LoggingConfig) ValidationErrors {
	var errs ValidationErrors

	switch l.Level {
	case "debug", "info", "warn", "error":
		// Valid levels
	default:
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Message: fmt.Sprintf("invalid log level: %s (valid: debug, info, warn, error)", l.Level),
		})
	}

	switch l.Format {
	case "text", "json":
		// Valid formats
	default:
		errs = append(errs, ValidationError{
			Field:   "logging.format",
			Message: fmt.Sprintf("invalid log format: %s (valid: text, json)", l.Format),
		})
	}

	switch l.Output {
	case "stdout", "stderr":
	case "file", "both":
		if l.FilePath == "" {
			errs = append(errs, ValidationError{
				Field:   "logging.file_path",
				Message: "file path is required when output is 'file' or 'both'",
			})
		}
	default:
		errs = append(errs, ValidationError{
			Field:   "logging.output",
			Message: fmt.Sprintf("invalid log output: %s (valid: stdout, stderr, file, both)", l.Output),
		})
	}

	return errs
}

// Helper functions

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// IsWarning returns true if this is a non-fatal validation issue.
func (e *ValidationError) IsWarning() bool {
	warningFields := []string{
		"layouts.dir",     // the built-in layout still works
		"keyboard.height", // unknown settings scale by 1.0
	}
	for _, f := range warningFields {
		if strings.HasPrefix(e.Field, f) && e.Message != "required field is missing" {
			return true
		}
	}
	return false
}

// Warnings returns only warning-level validation errors.
func (e ValidationErrors) Warnings() ValidationErrors {
	var warnings ValidationErrors
	for _, err := range e {
		if err.IsWarning() {
			warnings = append(warnings, err)
		}
	}
	return warnings
}

// Errors returns only error-level validation errors.
func (e ValidationErrors) Errors() ValidationErrors {
	var errs ValidationErrors
	for _, err := range e {
		if !err.IsWarning() {
			errs = append(errs, err)
		}
	}
	return errs
}

// HasErrors returns true if there are any non-warning errors.
func (e ValidationErrors) HasErrors() bool {
	return len(e.Errors()) > 0
}

// Check runs ValidateConfig and also returns the warnings it tolerated.
func Check(c *Config) (warnings ValidationErrors, err error) {
	c.mu.RLock()
	var all ValidationErrors
	all = append(all, validateKeyboard(&c.Keyboard)...)
	all = append(all, validateLayouts(&c.Layouts)...)
	c.mu.RUnlock()

	return all.Warnings(), ValidateConfig(c)
}

// RequiredFieldError creates a validation error for a required field.
func RequiredFieldError(field string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: "required field is missing",
	}
}

// RangeError creates a validation error for an out-of-range value.
func RangeError(field string, min, max interface{}) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: fmt.Sprintf("value must be between %v and %v", min, max),
	}
}
