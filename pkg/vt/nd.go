package vt

import (
	"fmt"
	"slices"
	"unsafe"

	"src.vt.sh/pkg/kind"
	"src.vt.sh/pkg/ndarray"
	"src.vt.sh/pkg/vt/errs"
)

// FromBuffer returns an array of a scalar kind viewing b without copying it.
// The caller must keep b valid and unchanged for as long as the array or any
// copy of it borrows b. The array never writes to b; the first mutation, or
// Own, copies the elements into storage owned by the array.
//
// The length and alignment of b must suit the element type.
func FromBuffer[E kind.Elem](b []byte) (*Array[E], error) {
	k := kind.Of[E]()
	fail := func(format string, args ...any) (*Array[E], error) {
		return nil, errs.Construction{Kind: k.Name, Reason: fmt.Sprintf(format, args...)}
	}
	if k.IsCompound() || k.Scalar == kind.ScalarString {
		return fail("only scalar numeric and bool arrays can borrow buffers")
	}
	size := k.ElemSize()
	if len(b)%size != 0 {
		return fail("buffer of %d bytes is not a whole number of %d-byte elements", len(b), size)
	}
	if len(b) == 0 {
		return New[E](0), nil
	}
	if align := unsafe.Alignof(*new(E)); uintptr(unsafe.Pointer(unsafe.SliceData(b)))%align != 0 {
		return fail("buffer is not aligned to %d bytes", align)
	}
	if k.Scalar == kind.ScalarBool {
		for i, c := range b {
			if c > 1 {
				return fail("byte %d is %d, not a valid bool", i, c)
			}
		}
	}
	data := unsafe.Slice((*E)(unsafe.Pointer(unsafe.SliceData(b))), len(b)/size)
	buf := newBuffer(data)
	buf.borrowed = true
	return &Array[E]{buf}, nil
}

// Own makes sure that a neither shares nor borrows its storage.
func (a *Array[E]) Own() { a.detach() }

// FromND imports a foreign multi-dimensional array, converting each value to
// the component type of E.
//
// The trailing dimensions must equal the element shape of E, and the leading
// dimensions are flattened into the length. As a special case, a
// 1-dimensional array holding exactly one element's worth of components is
// imported as an array of length 1.
func FromND[E kind.Elem](d ndarray.Descriptor) (*Array[E], error) {
	k := kind.Of[E]()
	fail := func(format string, args ...any) (*Array[E], error) {
		return nil, errs.Construction{Kind: k.Name, Reason: fmt.Sprintf(format, args...)}
	}
	if k.Scalar == kind.ScalarString {
		return fail("string arrays cannot be imported")
	}
	if err := d.Validate(); err != nil {
		return fail("%v", err)
	}
	n := 1
	switch {
	case k.IsCompound() && len(d.Shape) == 1 && d.Shape[0] == k.Components:
	case len(d.Shape) < len(k.Shape):
		return fail("shape %v has fewer dimensions than element shape %v", d.Shape, k.Shape)
	default:
		lead, trail := d.Shape[:len(d.Shape)-len(k.Shape)], d.Shape[len(d.Shape)-len(k.Shape):]
		if !slices.Equal(trail, k.Shape) {
			return fail("trailing shape %v does not match element shape %v", trail, k.Shape)
		}
		for _, s := range lead {
			n *= s
		}
	}

	out := make([]E, n)
	if n == 0 {
		return wrap(out), nil
	}
	dst := unsafe.Pointer(unsafe.SliceData(out))
	if dt, _ := k.Scalar.DType(); dt == d.DType && d.IsContiguous() {
		copy(unsafe.Slice((*byte)(dst), n*k.ElemSize()), d.Data[d.Offset:])
		return wrap(out), nil
	}
	i := 0
	d.Walk(func(off int) {
		storeConverted(k.Scalar, component(k.Scalar, dst, i), d.DType, d.Data, off)
		i++
	})
	return wrap(out), nil
}

// storeConverted converts the foreign value at off in data to the component
// type s and stores it at p.
func storeConverted(s kind.Scalar, p unsafe.Pointer, dt ndarray.DType, data []byte, off int) {
	switch {
	case s.IsFloat():
		storeFloat(s, p, dt.Float64At(data, off))
	case s == kind.ScalarBool:
		*(*bool)(p) = dt.Float64At(data, off) != 0
	case dt == ndarray.Uint64:
		storeBits(s, p, dt.Uint64At(data, off))
	default:
		i, _ := dt.Int64At(data, off)
		storeBits(s, p, uint64(i))
	}
}

// Export lends the storage of the array out as an N-dimensional array of
// shape (n, element shape...), without copying it. Until the returned value is
// released, the storage counts as shared: writes through the array fork it, so
// the exported bytes stay unchanged.
func (a *Array[E]) Export() (*ndarray.Exported, error) {
	if a.buf == nil {
		a.buf = newBuffer[E](nil)
	}
	return exportBuffer(a.buf, 0, a.Len(), 1)
}

// Export lends the viewed storage out as an N-dimensional array, without
// copying it. The leading stride reflects the step of the view.
func (v *View[E]) Export() (*ndarray.Exported, error) {
	return exportBuffer(v.buf, v.first, v.count, v.step)
}

func exportBuffer[E kind.Elem](b *buffer[E], first, count, step int) (*ndarray.Exported, error) {
	k := kind.Of[E]()
	dt, ok := k.Scalar.DType()
	if !ok {
		return nil, errs.Type{What: "exported array",
			Valid: "array of numbers or bools", Actual: k.Name + " array"}
	}
	size := k.ElemSize()
	data := b.data
	bytes := unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(data))), len(data)*size)
	shape := append([]int{count}, k.Shape...)
	var strides []int
	if step != 1 {
		strides = make([]int, len(shape))
		strides[0] = step * size
		inner := dt.Size()
		for i := len(shape) - 1; i > 0; i-- {
			strides[i] = inner
			inner *= shape[i]
		}
	}
	offset := 0
	if count > 0 {
		offset = first * size
	}
	d := ndarray.Descriptor{Data: bytes, Offset: offset, DType: dt, Shape: shape, Strides: strides}
	b.retain()
	return ndarray.NewExported(d, b.release), nil
}
