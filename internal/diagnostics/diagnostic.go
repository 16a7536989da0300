package diagnostics

import (
	"fmt"

	"github.com/ShubhamPhapale/apex/internal/source"
)

// Severity represents the severity level of a diagnostic
type Severity int

const (
	Error Severity = iota
	Warning
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	default:
		return "unknown"
	}
}

// Diagnostic represents a compiler diagnostic (error or warning)
type Diagnostic struct {
	Severity Severity
	Message  string
	Location source.Location
}

// NewError creates a new error diagnostic
func NewError(message string, loc source.Location) *Diagnostic {
	return &Diagnostic{
		Severity: Error,
		Message:  message,
		Location: loc,
	}
}

// NewWarning creates a new warning diagnostic
func NewWarning(message string, loc source.Location) *Diagnostic {
	return &Diagnostic{
		Severity: Warning,
		Message:  message,
		Location: loc,
	}
}

// String renders the diagnostic in the one-line form path:line:column: severity: message.
func (d *Diagnostic) String() string {
	return fmt.Sprintf("%s:%d:%d: %s: %s",
		d.Location.Filename, d.Location.Start.Line, d.Location.Start.Column,
		d.Severity, d.Message)
}
