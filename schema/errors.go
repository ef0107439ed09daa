package schema

import "fmt"

// ValidationError rejects a whole request because a required field is missing
// or malformed.
type ValidationError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid field %s: %s", e.Field, e.Reason)
}

// ParseError marks a single history entry which was skipped during evaluation.
type ParseError struct {
	Index  int    `json:"index"`
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e ParseError) Error() string {
	return fmt.Sprintf("history[%d].%s: %s", e.Index, e.Field, e.Reason)
}
