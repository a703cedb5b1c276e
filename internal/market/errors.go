package market

import "fmt"

// SchemaError reports a required column missing from an input artifact.
type SchemaError struct {
	Artifact string
	Column   string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: missing required column %q", e.Artifact, e.Column)
}

// ParseError reports a cell that could not be parsed. Row is the 1-based
// data row, not counting the header.
type ParseError struct {
	Artifact string
	Row      int
	Field    string
	Value    string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: row %d: parse %s %q: %v", e.Artifact, e.Row, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// StageError attributes a fatal error to a pipeline stage and input artifact.
type StageError struct {
	Stage    string
	Artifact string
	Err      error
}

func (e *StageError) Error() string {
	if e.Artifact == "" {
		return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("stage %s (%s): %v", e.Stage, e.Artifact, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
