// Package errs declares error types used by arrays and edits.
//
// All error types are comparable structs with exported fields, and are
// returned as values. Use errors.As to test for them.
package errs

import (
	"fmt"
	"strconv"
)

// OutOfRange encodes an error where a value is out of its valid range.
type OutOfRange struct {
	What      string
	ValidLow  int
	ValidHigh int
	// If not empty, describes the valid values in place of ValidLow and
	// ValidHigh.
	Valid  string
	Actual string
}

// Error implements the error interface.
func (e OutOfRange) Error() string {
	if e.Valid != "" {
		return fmt.Sprintf("out of range: %s must be %s, but is %s", e.What, e.Valid, e.Actual)
	}
	if e.ValidHigh < e.ValidLow {
		return fmt.Sprintf(
			"out of range: %v has no valid value, but is %v", e.What, e.Actual)
	}
	return fmt.Sprintf(
		"out of range: %s must be from %v to %v, but is %v",
		e.What, e.ValidLow, e.ValidHigh, e.Actual)
}

// OutOfRangeIndex returns the OutOfRange error of an index into a sequence of
// length n.
func OutOfRangeIndex(i, n int) OutOfRange {
	return OutOfRange{What: "index",
		ValidLow: -n, ValidHigh: n - 1, Actual: strconv.Itoa(i)}
}

// Overflow encodes an error where an integer does not fit in the component
// type of a kind.
type Overflow struct {
	Kind      string
	ValidLow  string
	ValidHigh string
	Actual    string
}

// Error implements the error interface.
func (e Overflow) Error() string {
	return fmt.Sprintf("overflow: value for %s must be from %s to %s, but is %s",
		e.Kind, e.ValidLow, e.ValidHigh, e.Actual)
}

// Type encodes an error where a value has the wrong type.
type Type struct {
	What   string
	Valid  string
	Actual string
}

// Error implements the error interface.
func (e Type) Error() string {
	return fmt.Sprintf("wrong type: %s must be %s, but is %s", e.What, e.Valid, e.Actual)
}

// Value encodes an error where a value has the right type but is not
// acceptable.
type Value struct {
	What   string
	Valid  string
	Actual string
}

// Error implements the error interface.
func (e Value) Error() string {
	return fmt.Sprintf("bad value: %s must be %s, but is %s", e.What, e.Valid, e.Actual)
}

// Construction encodes an error where an array cannot be built from its
// source.
type Construction struct {
	Kind   string
	Reason string
}

// Error implements the error interface.
func (e Construction) Error() string {
	return fmt.Sprintf("cannot construct %s array: %s", e.Kind, e.Reason)
}

// DivisionByZero encodes an integer division by zero.
type DivisionByZero struct{}

// Error implements the error interface.
func (DivisionByZero) Error() string { return "division by zero" }

// EditBuild encodes an error in building an edit. It wraps the cause.
type EditBuild struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e EditBuild) Error() string {
	return fmt.Sprintf("cannot build edit: %s: %v", e.Op, e.Err)
}

func (e EditBuild) Unwrap() error { return e.Err }
