package model

import (
	"fmt"
	"strings"
)

// NotFoundError reports a missing input file.
type NotFoundError struct {
	Path string
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("input file %q not found", e.Path)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// SchemaError lists every required column absent from a table.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Missing, ", "))
}

// ParseError reports a date cell that could not be parsed.
type ParseError struct {
	Column string
	Row    int // 1-based data row
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s at row %d: invalid value %q", e.Column, e.Row, e.Value)
}

func (e *ParseError) Unwrap() error { return e.Err }

// TypeError reports a cell that cannot be coerced to a number.
type TypeError struct {
	Column string
	Row    int // 1-based data row
	Value  string
	Err    error
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("convert %s at row %d to float: invalid value %q", e.Column, e.Row, e.Value)
}

func (e *TypeError) Unwrap() error { return e.Err }

// NumericalError reports an ill-posed regression.
type NumericalError struct {
	Reason string
}

func (e *NumericalError) Error() string {
	return "numerical error: " + e.Reason
}
