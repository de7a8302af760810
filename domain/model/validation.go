package model

import "fmt"

// Dimensions holds the detected shape of a validated table.
type Dimensions struct {
	Rows int
	Cols int
}

// ValidationResult is the outcome of validating raw table JSON.
// Errors are fatal; warnings are advisory and never block downstream use.
type ValidationResult struct {
	// IsValid reports whether the JSON can be ingested.
	IsValid bool
	// Errors lists every fatal problem found. Non-empty iff IsValid is false.
	Errors []string
	// Warnings lists advisory observations on an otherwise valid table.
	Warnings []string
	// Dimensions is populated only on structural success.
	Dimensions *Dimensions
}

// HasErrors reports whether any error was recorded.
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasWarnings reports whether any warning was recorded.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// Summary returns a one-line human-readable validation summary.
func (r *ValidationResult) Summary() string {
	if !r.IsValid {
		return fmt.Sprintf("invalid JSON: %d error(s)", len(r.Errors))
	}
	summary := "valid JSON"
	if r.Dimensions != nil {
		summary += fmt.Sprintf(": %dx%d", r.Dimensions.Rows, r.Dimensions.Cols)
	}
	if r.HasWarnings() {
		summary += fmt.Sprintf(" (%d warning(s))", len(r.Warnings))
	}
	return summary
}
