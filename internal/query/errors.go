package query

import "fmt"

// ReferenceError reports a mutation that referenced a table absent from the
// model or a column absent from the catalog. The model is left unchanged.
type ReferenceError struct {
	Table  string
	Column string // empty when the table itself is unknown
}

func (e *ReferenceError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("unknown table %q", e.Table)
	}
	return fmt.Sprintf("unknown column %q on table %q", e.Column, e.Table)
}

// ValidationError reports a structurally invalid mutation argument, such as a
// negative limit or a filter value whose shape does not match its operator.
// The model is left unchanged.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid query: " + e.Reason
}
