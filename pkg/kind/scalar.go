package kind

import (
	"math"
	"math/big"
	"unsafe"

	"src.vt.sh/pkg/ndarray"
)

// Scalar is the type of one component of an element.
type Scalar uint8

// Component scalar types.
const (
	ScalarBool Scalar = iota
	ScalarInt8
	ScalarUint8
	ScalarInt16
	ScalarUint16
	ScalarInt32
	ScalarUint32
	ScalarInt64
	ScalarUint64
	ScalarHalf
	ScalarFloat32
	ScalarFloat64
	ScalarString
)

var scalarNames = [...]string{
	ScalarBool:    "bool",
	ScalarInt8:    "int8",
	ScalarUint8:   "uint8",
	ScalarInt16:   "int16",
	ScalarUint16:  "uint16",
	ScalarInt32:   "int32",
	ScalarUint32:  "uint32",
	ScalarInt64:   "int64",
	ScalarUint64:  "uint64",
	ScalarHalf:    "float16",
	ScalarFloat32: "float32",
	ScalarFloat64: "float64",
	ScalarString:  "string",
}

func (s Scalar) String() string {
	if int(s) < len(scalarNames) {
		return scalarNames[s]
	}
	return "invalid"
}

func (s Scalar) size() uintptr {
	switch s {
	case ScalarBool, ScalarInt8, ScalarUint8:
		return 1
	case ScalarInt16, ScalarUint16, ScalarHalf:
		return 2
	case ScalarInt32, ScalarUint32, ScalarFloat32:
		return 4
	case ScalarInt64, ScalarUint64, ScalarFloat64:
		return 8
	case ScalarString:
		return unsafe.Sizeof("")
	}
	return 0
}

// Size returns the size of the scalar in bytes.
func (s Scalar) Size() int { return int(s.size()) }

// IsInteger reports whether the scalar is an integer type.
func (s Scalar) IsInteger() bool { return ScalarInt8 <= s && s <= ScalarUint64 }

// IsSigned reports whether the scalar is a signed integer type.
func (s Scalar) IsSigned() bool {
	switch s {
	case ScalarInt8, ScalarInt16, ScalarInt32, ScalarInt64:
		return true
	}
	return false
}

// IsFloat reports whether the scalar is a floating point type.
func (s Scalar) IsFloat() bool { return ScalarHalf <= s && s <= ScalarFloat64 }

// TypeMin returns the smallest value of an integer scalar, or nil for other
// scalars.
func (s Scalar) TypeMin() *big.Int {
	if !s.IsInteger() {
		return nil
	}
	if !s.IsSigned() {
		return new(big.Int)
	}
	return new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), uint(s.Size()*8-1)))
}

// TypeMax returns the largest value of an integer scalar, or nil for other
// scalars.
func (s Scalar) TypeMax() *big.Int {
	if !s.IsInteger() {
		return nil
	}
	bits := uint(s.Size() * 8)
	if s.IsSigned() {
		bits--
	}
	max := new(big.Int).Lsh(big.NewInt(1), bits)
	return max.Sub(max, big.NewInt(1))
}

// InRange reports whether an integer fits in an integer scalar.
func (s Scalar) InRange(v *big.Int) bool {
	return s.IsInteger() && v.Cmp(s.TypeMin()) >= 0 && v.Cmp(s.TypeMax()) <= 0
}

// MaxFinite returns the largest finite value of a floating point scalar.
func (s Scalar) MaxFinite() float64 {
	switch s {
	case ScalarHalf:
		return 65504
	case ScalarFloat32:
		return math.MaxFloat32
	case ScalarFloat64:
		return math.MaxFloat64
	}
	return 0
}

// DType returns the foreign data type of the scalar. Strings have none.
func (s Scalar) DType() (ndarray.DType, bool) {
	switch s {
	case ScalarBool:
		return ndarray.Bool, true
	case ScalarInt8:
		return ndarray.Int8, true
	case ScalarUint8:
		return ndarray.Uint8, true
	case ScalarInt16:
		return ndarray.Int16, true
	case ScalarUint16:
		return ndarray.Uint16, true
	case ScalarInt32:
		return ndarray.Int32, true
	case ScalarUint32:
		return ndarray.Uint32, true
	case ScalarInt64:
		return ndarray.Int64, true
	case ScalarUint64:
		return ndarray.Uint64, true
	case ScalarHalf:
		return ndarray.Float16, true
	case ScalarFloat32:
		return ndarray.Float32, true
	case ScalarFloat64:
		return ndarray.Float64, true
	}
	return ndarray.Invalid, false
}
