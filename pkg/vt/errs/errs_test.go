package errs

import (
	"errors"
	"testing"
)

var errorMessageTests = []struct {
	err     error
	wantMsg string
}{
	{
		OutOfRange{What: "index", ValidLow: 0, ValidHigh: 2, Actual: "3"},
		"out of range: index must be from 0 to 2, but is 3",
	},
	{
		OutOfRangeIndex(5, 3),
		"out of range: index must be from -3 to 2, but is 5",
	},
	{
		OutOfRangeIndex(0, 0),
		"out of range: index has no valid value, but is 0",
	},
	{
		OutOfRange{What: "slice step", Valid: "nonzero", Actual: "0"},
		"out of range: slice step must be nonzero, but is 0",
	},
	{
		Overflow{Kind: "uchar", ValidLow: "0", ValidHigh: "255", Actual: "256"},
		"overflow: value for uchar must be from 0 to 255, but is 256",
	},
	{
		Type{What: "scalar for int array", Valid: "integer", Actual: "float64"},
		"wrong type: scalar for int array must be integer, but is float64",
	},
	{
		Value{What: "source length", Valid: "3", Actual: "2"},
		"bad value: source length must be 3, but is 2",
	},
	{
		Construction{Kind: "vec3d", Reason: "trailing shape (2) does not match element shape (3)"},
		"cannot construct vec3d array: trailing shape (2) does not match element shape (3)",
	},
	{
		DivisionByZero{},
		"division by zero",
	},
	{
		EditBuild{Op: "MinSize", Err: errors.New("negative size -1")},
		"cannot build edit: MinSize: negative size -1",
	},
}

func TestErrorMessages(t *testing.T) {
	for _, test := range errorMessageTests {
		if gotMsg := test.err.Error(); gotMsg != test.wantMsg {
			t.Errorf("got message %v, want %v", gotMsg, test.wantMsg)
		}
	}
}

func TestEditBuild_Unwrap(t *testing.T) {
	var err error = EditBuild{Op: "Append", Err: Type{What: "literal", Valid: "int", Actual: "string"}}
	var typeErr Type
	if !errors.As(err, &typeErr) {
		t.Fatalf("errors.As(EditBuild, *Type) is false")
	}
	if typeErr.Actual != "string" {
		t.Errorf("got cause %v", typeErr)
	}
}
