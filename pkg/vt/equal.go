package vt

import (
	"unsafe"

	"github.com/x448/float16"
	"src.vt.sh/pkg/hash"
	"src.vt.sh/pkg/kind"
)

// Equal reports whether other is an array of the same kind holding equal
// elements. Floating point components are compared by value, so 0 equals -0
// and NaN equals nothing.
func (a *Array[E]) Equal(other any) bool {
	b, ok := other.(*Array[E])
	if !ok {
		return false
	}
	x, y := a.data(), b.data()
	if len(x) != len(y) {
		return false
	}
	if a.buf == b.buf {
		// Shared storage is equal to itself unless it holds NaN.
		if !kind.Of[E]().Scalar.IsFloat() {
			return true
		}
	}
	if kind.Of[E]().Scalar == kind.ScalarHalf {
		xs, ys := flat[E, float16.Float16](x), flat[E, float16.Float16](y)
		for i := range xs {
			if xs[i].Float32() != ys[i].Float32() {
				return false
			}
		}
		return true
	}
	for i := range x {
		if x[i] != y[i] {
			return false
		}
	}
	return true
}

// Hash returns a hash of the elements, consistent with Equal for arrays
// without NaN.
func (a *Array[E]) Hash() uint32 {
	data := a.data()
	k := kind.Of[E]()
	h := hash.DJBCombine(hash.DJBInit, uint32(k.ID))
	switch {
	case k.Scalar == kind.ScalarString:
		for _, s := range flat[E, string](data) {
			h = hash.DJBCombine(h, hash.String(s))
		}
	case k.Scalar.IsFloat():
		for i, n := 0, len(data)*k.Components; i < n; i++ {
			p := component(k.Scalar, unsafe.Pointer(unsafe.SliceData(data)), i)
			h = hash.DJBCombine(h, hash.Float64(loadFloat(k.Scalar, p)))
		}
	default:
		for i, n := 0, len(data)*k.Components; i < n; i++ {
			p := component(k.Scalar, unsafe.Pointer(unsafe.SliceData(data)), i)
			h = hash.DJBCombine(h, hash.UInt64(loadBits(k.Scalar, p)))
		}
	}
	return h
}
