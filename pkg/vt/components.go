package vt

import (
	"math"
	"unsafe"

	"github.com/x448/float16"
	"src.vt.sh/pkg/kind"
)

// flat reinterprets a slice of elements as the slice of their components.
// C must be the component type of E.
func flat[E kind.Elem, C any](s []E) []C {
	if len(s) == 0 {
		return nil
	}
	n := len(s) * int(unsafe.Sizeof(s[0])) / int(unsafe.Sizeof(*new(C)))
	return unsafe.Slice((*C)(unsafe.Pointer(unsafe.SliceData(s))), n)
}

// component returns the address of the i-th component of the element at p.
func component(s kind.Scalar, p unsafe.Pointer, i int) unsafe.Pointer {
	return unsafe.Add(p, i*s.Size())
}

// storeBits stores the low bits of an integer in a component of scalar s.
func storeBits(s kind.Scalar, p unsafe.Pointer, bits uint64) {
	switch s.Size() {
	case 1:
		*(*uint8)(p) = uint8(bits)
	case 2:
		*(*uint16)(p) = uint16(bits)
	case 4:
		*(*uint32)(p) = uint32(bits)
	case 8:
		*(*uint64)(p) = bits
	}
}

// loadBits loads an integer component of scalar s, sign-extending signed
// types.
func loadBits(s kind.Scalar, p unsafe.Pointer) uint64 {
	switch s {
	case kind.ScalarInt8:
		return uint64(*(*int8)(p))
	case kind.ScalarUint8, kind.ScalarBool:
		return uint64(*(*uint8)(p))
	case kind.ScalarInt16:
		return uint64(*(*int16)(p))
	case kind.ScalarUint16:
		return uint64(*(*uint16)(p))
	case kind.ScalarInt32:
		return uint64(*(*int32)(p))
	case kind.ScalarUint32:
		return uint64(*(*uint32)(p))
	case kind.ScalarInt64, kind.ScalarUint64:
		return *(*uint64)(p)
	}
	return 0
}

func storeFloat(s kind.Scalar, p unsafe.Pointer, f float64) {
	switch s {
	case kind.ScalarHalf:
		*(*float16.Float16)(p) = float16.Fromfloat32(float32(f))
	case kind.ScalarFloat32:
		*(*float32)(p) = float32(f)
	case kind.ScalarFloat64:
		*(*float64)(p) = f
	}
}

func loadFloat(s kind.Scalar, p unsafe.Pointer) float64 {
	switch s {
	case kind.ScalarHalf:
		return float64((*(*float16.Float16)(p)).Float32())
	case kind.ScalarFloat32:
		return float64(*(*float32)(p))
	case kind.ScalarFloat64:
		return *(*float64)(p)
	}
	return math.NaN()
}

// storeNumber stores a float64 in a numeric component, truncating for
// integer scalars.
func storeNumber(s kind.Scalar, p unsafe.Pointer, f float64) {
	switch {
	case s.IsFloat():
		storeFloat(s, p, f)
	case s == kind.ScalarBool:
		*(*bool)(p) = f != 0
	case s == kind.ScalarUint64 && f >= 1<<63:
		storeBits(s, p, uint64(f))
	default:
		storeBits(s, p, uint64(int64(f)))
	}
}
