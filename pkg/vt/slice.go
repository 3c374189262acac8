package vt

import (
	"fmt"
	"slices"
	"strconv"

	"src.vt.sh/pkg/kind"
	"src.vt.sh/pkg/vt/errs"
)

// Bound is an optional slice bound.
type Bound struct {
	i   int
	set bool
}

// Open is the omitted slice bound.
var Open = Bound{}

// At returns the slice bound i.
func At(i int) Bound { return Bound{i, true} }

func (b Bound) String() string {
	if !b.set {
		return ""
	}
	return strconv.Itoa(b.i)
}

// SliceIndices resolves slice bounds against a sequence of length n, the same
// way as generic sequence slicing: negative bounds count from the end, bounds
// are clamped to the sequence, and omitted bounds default to the first and
// last element in the direction of step. It returns the index of the first
// element, and the number of elements in the slice.
func SliceIndices(start, stop Bound, step, n int) (first, count int, err error) {
	if step == 0 {
		return 0, 0, errs.OutOfRange{What: "slice step",
			Valid: "nonzero", Actual: "0"}
	}
	lower, upper := 0, n
	if step < 0 {
		lower, upper = -1, n-1
	}
	clamp := func(b Bound, def int) int {
		if !b.set {
			return def
		}
		i := b.i
		if i < 0 {
			i += n
			if i < lower {
				i = lower
			}
		} else if i > upper {
			i = upper
		}
		return i
	}
	if step > 0 {
		first, last := clamp(start, lower), clamp(stop, upper)
		if last > first {
			count = (last-first-1)/step + 1
		}
		return first, count, nil
	}
	first, last := clamp(start, upper), clamp(stop, lower)
	if first > last {
		count = (first-last-1)/(-step) + 1
	}
	return first, count, nil
}

// Slice returns a new array holding the elements selected by the slice
// bounds. A zero step is rejected with an errs.OutOfRange.
func (a *Array[E]) Slice(start, stop Bound, step int) (*Array[E], error) {
	data := a.data()
	first, count, err := SliceIndices(start, stop, step, len(data))
	if err != nil {
		return nil, err
	}
	if step == 1 {
		return FromSlice(data[first : first+count]), nil
	}
	out := make([]E, count)
	for i := range out {
		out[i] = data[first+i*step]
	}
	return wrap(out), nil
}

// SetSlice assigns src to the elements selected by the slice bounds. The
// source may be an *Array[E], a []E, a []any of literals, or a single literal
// that is broadcast to every selected element.
//
// A sequence source must have exactly as many elements as the slice; an empty
// or wrong-length sequence is rejected with an errs.Value, and an
// incompatible element with the error of ConvertLiteral. Nothing is written
// unless the whole assignment is valid.
func (a *Array[E]) SetSlice(start, stop Bound, step int, src any) error {
	first, count, err := SliceIndices(start, stop, step, a.Len())
	if err != nil {
		return err
	}
	values, err := sliceSource[E](src, count)
	if err != nil {
		return err
	}
	if src, ok := src.(*Array[E]); ok && src.buf != nil && src.buf == a.buf {
		values = slices.Clone(values)
	}
	if count == 0 {
		return nil
	}
	data := a.detach()
	for i := 0; i < count; i++ {
		data[first+i*step] = values[i%len(values)]
	}
	return nil
}

// SetAll assigns src to every element, like SetSlice with open bounds.
func (a *Array[E]) SetAll(src any) error {
	return a.SetSlice(Open, Open, 1, src)
}

// sliceSource validates and converts the source of a slice assignment of count
// elements. A broadcast source is returned as one value.
func sliceSource[E kind.Elem](src any, count int) ([]E, error) {
	var values []E
	switch src := src.(type) {
	case *Array[E]:
		values = src.data()
	case []E:
		values = src
	case []any:
		var err error
		values, err = ConvertLiterals[E](src)
		if err != nil {
			return nil, err
		}
	default:
		k := kind.Of[E]()
		// Tuples are sequences of elements for scalar kinds and a single
		// element for compound kinds.
		if vs, ok := tuple(src); ok && !k.IsCompound() {
			return sliceSource[E](vs, count)
		}
		e, err := ConvertLiteral[E](src)
		if err != nil {
			return nil, err
		}
		return []E{e}, nil
	}
	if len(values) == 0 {
		return nil, errs.Value{What: "slice assignment source",
			Valid: "non-empty", Actual: "empty"}
	}
	if len(values) != count {
		return nil, errs.Value{What: "length of slice assignment source",
			Valid: strconv.Itoa(count), Actual: strconv.Itoa(len(values))}
	}
	return values, nil
}

// View is a read-only strided window onto the storage of an array. It
// shares storage with the array it was taken from.
type View[E kind.Elem] struct {
	buf   *buffer[E]
	first int
	count int
	step  int
}

// View returns a view of the elements selected by the slice bounds without
// copying them.
func (a *Array[E]) View(start, stop Bound, step int) (*View[E], error) {
	first, count, err := SliceIndices(start, stop, step, a.Len())
	if err != nil {
		return nil, err
	}
	if a.buf == nil {
		a.buf = newBuffer[E](nil)
	}
	return &View[E]{a.buf.retain(), first, count, step}, nil
}

// Len returns the number of elements in the view.
func (v *View[E]) Len() int { return v.count }

// Get returns the i-th element of the view.
func (v *View[E]) Get(i int) (E, error) {
	j, err := adjustIndex(i, v.count)
	if err != nil {
		return *new(E), err
	}
	return v.buf.data[v.first+j*v.step], nil
}

// Array returns a new array holding a copy of the elements of the view.
func (v *View[E]) Array() *Array[E] {
	out := make([]E, v.count)
	for i := range out {
		out[i] = v.buf.data[v.first+i*v.step]
	}
	return wrap(out)
}

// Release drops the view's reference to the storage.
func (v *View[E]) Release() {
	if v.buf != nil {
		v.buf.release()
		v.buf = nil
	}
}

func (v *View[E]) String() string {
	return fmt.Sprintf("<view of %d %s elements>", v.count, kind.Of[E]())
}
