package ndarray

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"github.com/x448/float16"
)

// DType is the element data type of a foreign buffer.
type DType uint8

// Data types. Values are stored in native byte order.
const (
	Invalid DType = iota
	Bool
	Int8
	Uint8
	Int16
	Uint16
	Int32
	Uint32
	Int64
	Uint64
	Float16
	Float32
	Float64
)

var dtypeChars = [...]byte{
	Invalid: 0,
	Bool:    '?',
	Int8:    'b',
	Uint8:   'B',
	Int16:   'h',
	Uint16:  'H',
	Int32:   'i',
	Uint32:  'I',
	Int64:   'q',
	Uint64:  'Q',
	Float16: 'e',
	Float32: 'f',
	Float64: 'd',
}

// Char returns the one-letter format character of the data type, as used by
// buffer protocols.
func (d DType) Char() byte {
	if int(d) < len(dtypeChars) {
		return dtypeChars[d]
	}
	return 0
}

func (d DType) String() string {
	if c := d.Char(); c != 0 {
		return string(c)
	}
	return "invalid"
}

// Size returns the size of one value in bytes.
func (d DType) Size() int {
	switch d {
	case Bool, Int8, Uint8:
		return 1
	case Int16, Uint16, Float16:
		return 2
	case Int32, Uint32, Float32:
		return 4
	case Int64, Uint64, Float64:
		return 8
	}
	return 0
}

// IsFloat reports whether the data type is a floating point type.
func (d DType) IsFloat() bool { return d == Float16 || d == Float32 || d == Float64 }

// ParseDType parses a format character, optionally preceded by a native byte
// order mark ('@', '=' or the order of the host).
func ParseDType(s string) (DType, error) {
	t := strings.TrimLeft(s, "@=")
	if len(t) == 2 && t[0] == nativeOrderMark {
		t = t[1:]
	}
	if len(t) == 1 {
		for d, c := range dtypeChars {
			if c != 0 && c == t[0] {
				return DType(d), nil
			}
		}
	}
	return Invalid, fmt.Errorf("unsupported dtype %q", s)
}

var nativeOrderMark = func() byte {
	if binary.NativeEndian.Uint16([]byte{1, 0}) == 1 {
		return '<'
	}
	return '>'
}()

// Float64At reads the value at byte offset off of b as a float64.
func (d DType) Float64At(b []byte, off int) float64 {
	ne := binary.NativeEndian
	switch d {
	case Bool:
		if b[off] != 0 {
			return 1
		}
		return 0
	case Int8:
		return float64(int8(b[off]))
	case Uint8:
		return float64(b[off])
	case Int16:
		return float64(int16(ne.Uint16(b[off:])))
	case Uint16:
		return float64(ne.Uint16(b[off:]))
	case Int32:
		return float64(int32(ne.Uint32(b[off:])))
	case Uint32:
		return float64(ne.Uint32(b[off:]))
	case Int64:
		return float64(int64(ne.Uint64(b[off:])))
	case Uint64:
		return float64(ne.Uint64(b[off:]))
	case Float16:
		return float64(float16.Frombits(ne.Uint16(b[off:])).Float32())
	case Float32:
		return float64(math.Float32frombits(ne.Uint32(b[off:])))
	case Float64:
		return math.Float64frombits(ne.Uint64(b[off:]))
	}
	return 0
}

// Int64At reads the value at byte offset off of b as an int64. Floating values
// are truncated. It reports false if the value is an unsigned integer that
// does not fit.
func (d DType) Int64At(b []byte, off int) (int64, bool) {
	ne := binary.NativeEndian
	switch d {
	case Bool, Int8, Uint8, Int16, Uint16, Int32, Uint32:
		return int64(d.Float64At(b, off)), true
	case Int64:
		return int64(ne.Uint64(b[off:])), true
	case Uint64:
		u := ne.Uint64(b[off:])
		return int64(u), u <= math.MaxInt64
	}
	return int64(d.Float64At(b, off)), true
}

// Uint64At reads the value at byte offset off of b as a uint64. It is exact for
// unsigned integer types.
func (d DType) Uint64At(b []byte, off int) uint64 {
	if d == Uint64 {
		return binary.NativeEndian.Uint64(b[off:])
	}
	v, _ := d.Int64At(b, off)
	return uint64(v)
}
