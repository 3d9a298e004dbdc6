package config

import (
	"fmt"
	"net/url"
	"strings"
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

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	var errs ValidationErrors

	if c.Version < 1 || c.Version > Version {
		errs = append(errs, ValidationError{
			Field:   "version",
			Message: fmt.Sprintf("unsupported version %d (current: %d)", c.Version, Version),
		})
	}

	errs = append(errs, validateMatcher(&c.Matcher)...)
	errs = append(errs, validateCanvas(&c.Canvas)...)
	errs = append(errs, validateRecording(&c.Recording)...)
	errs = append(errs, validateLogging(&c.Logging)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateMatcher(m *MatcherConfig) ValidationErrors {
	var errs ValidationErrors
	if m.DataPath == "" {
		errs = append(errs, ValidationError{
			Field:   "matcher.data_path",
			Message: "required",
		})
	}
	if m.Limit < 1 || m.Limit > 64 {
		errs = append(errs, ValidationError{
			Field:   "matcher.limit",
			Message: fmt.Sprintf("must be between 1 and 64, got %d", m.Limit),
		})
	}
	return errs
}

func validateCanvas(c *CanvasConfig) ValidationErrors {
	var errs ValidationErrors
	if c.Size < 64 || c.Size > 4096 {
		errs = append(errs, ValidationError{
			Field:   "canvas.size",
			Message: fmt.Sprintf("must be between 64 and 4096, got %d", c.Size),
		})
	}
	if c.StrokeWidth <= 0 {
		errs = append(errs, ValidationError{
			Field:   "canvas.stroke_width",
			Message: "must be positive",
		})
	}
	return errs
}

func validateRecording(r *RecordingConfig) ValidationErrors {
	var errs ValidationErrors
	if !r.Enabled {
		return nil
	}
	if r.JournalPath == "" {
		errs = append(errs, ValidationError{
			Field:   "recording.journal_path",
			Message: "required when recording is enabled",
		})
	}
	if r.CollectorURL != "" {
		u, err := url.Parse(r.CollectorURL)
		if err != nil || (u.Scheme != "ws" && u.Scheme != "wss") {
			errs = append(errs, ValidationError{
				Field:   "recording.collector_url",
				Message: "must be a ws:// or wss:// URL",
			})
		}
	}
	return errs
}

func validateLogging(l *LoggingConfig) ValidationErrors {
	var errs ValidationErrors
	switch strings.ToLower(l.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Message: fmt.Sprintf("unknown level %q", l.Level),
		})
	}
	switch strings.ToLower(l.Format) {
	case "", "text", "json":
	default:
		errs = append(errs, ValidationError{
			Field:   "logging.format",
			Message: fmt.Sprintf("unknown format %q", l.Format),
		})
	}
	switch strings.ToLower(l.Output) {
	case "", "stdout", "stderr":
	case "file":
		if l.FilePath == "" {
			errs = append(errs, ValidationError{
				Field:   "logging.file_path",
				Message: "required for file output",
			})
		}
	default:
		errs = append(errs, ValidationError{
			Field:   "logging.output",
			Message: fmt.Sprintf("unknown output %q", l.Output),
		})
	}
	return errs
}
