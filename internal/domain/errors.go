package domain

import "fmt"

// TargetNotFoundError is returned when an explicitly requested target has no directory
type TargetNotFoundError struct {
	Name string
	Path string
}

func (e *TargetNotFoundError) Error() string {
	return fmt.Sprintf("target %q not found: %s does not exist", e.Name, e.Path)
}

// ReportParseError is returned when a generated report lacks the elements a result is built from
type ReportParseError struct {
	Target string
	Path   string
	Reason string
	Err    error
}

func (e *ReportParseError) Error() string {
	msg := fmt.Sprintf("parse report for target %q (%s): %s", e.Target, e.Path, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ReportParseError) Unwrap() error {
	return e.Err
}

// ConfigError reports an invalid combination of run settings
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
