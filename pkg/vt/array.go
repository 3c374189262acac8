// Package vt implements copy-on-write typed arrays.
//
// An *Array[E] is a handle onto a reference-counted block of storage holding
// elements of kind E. Copy returns another handle onto the same storage in
// constant time; the storage is cloned lazily the first time a handle that
// shares it is written through. A handle is not safe for concurrent mutation,
// but distinct handles sharing storage may be mutated concurrently.
//
// The zero value of Array is an empty array ready to use.
package vt

import (
	"slices"
	"sync/atomic"

	"src.vt.sh/pkg/kind"
	"src.vt.sh/pkg/logutil"
	"src.vt.sh/pkg/vt/errs"
)

var logger = logutil.GetLogger("[vt] ")

// buffer is a storage block shared by array handles.
type buffer[E kind.Elem] struct {
	data []E
	refs atomic.Int64
	// Set when data aliases memory that the array does not own. Such a buffer
	// is never written to.
	borrowed bool
}

func newBuffer[E kind.Elem](data []E) *buffer[E] {
	b := &buffer[E]{data: data}
	b.refs.Store(1)
	return b
}

func (b *buffer[E]) retain() *buffer[E] {
	b.refs.Add(1)
	return b
}

func (b *buffer[E]) release() {
	if b.refs.Add(-1) == 0 {
		b.data = nil
	}
}

// Array is a copy-on-write array of elements of kind E.
type Array[E kind.Elem] struct {
	buf *buffer[E]
}

// New returns an array of n default values.
func New[E kind.Elem](n int) *Array[E] {
	if n < 0 {
		n = 0
	}
	data := make([]E, n)
	if def := kind.Default[E](); def != *new(E) {
		for i := range data {
			data[i] = def
		}
	}
	return wrap(data)
}

// Of returns an array holding the given values.
func Of[E kind.Elem](values ...E) *Array[E] {
	return FromSlice(values)
}

// FromSlice returns an array holding a copy of s.
func FromSlice[E kind.Elem](s []E) *Array[E] {
	return wrap(slices.Clone(s))
}

// wrap returns an array owning data.
func wrap[E kind.Elem](data []E) *Array[E] {
	return &Array[E]{newBuffer(data)}
}

// Kind returns the element kind.
func (a *Array[E]) Kind() *kind.Kind { return kind.Of[E]() }

// Len returns the number of elements.
func (a *Array[E]) Len() int { return len(a.data()) }

func (a *Array[E]) data() []E {
	if a == nil || a.buf == nil {
		return nil
	}
	return a.buf.data
}

// Copy returns a new handle sharing storage with a.
func (a *Array[E]) Copy() *Array[E] {
	if a.buf == nil {
		return &Array[E]{}
	}
	return &Array[E]{a.buf.retain()}
}

// Release drops the handle's reference to its storage, leaving a empty.
func (a *Array[E]) Release() {
	if a.buf != nil {
		a.buf.release()
		a.buf = nil
	}
}

// IsShared reports whether writing through a would fork its storage.
func (a *Array[E]) IsShared() bool {
	return a.buf != nil && (a.buf.borrowed || a.buf.refs.Load() > 1)
}

// detach makes sure that a is the sole owner of its storage, forking a
// private copy if needed, and returns the storage.
func (a *Array[E]) detach() []E {
	b := a.buf
	if b == nil {
		a.buf = newBuffer[E](nil)
		return nil
	}
	if !b.borrowed && b.refs.Load() == 1 {
		return b.data
	}
	if logutil.Enabled(logutil.COW) {
		logger.Printf("forking shared storage of %d %s elements", len(b.data), kind.Of[E]())
	}
	a.buf = newBuffer(slices.Clone(b.data))
	b.release()
	return a.buf.data
}

// replace makes data the storage of a, dropping the old storage.
func (a *Array[E]) replace(data []E) {
	old := a.buf
	a.buf = newBuffer(data)
	if old != nil {
		old.release()
	}
}

// Get returns the element at index i. Negative indices count from the end.
func (a *Array[E]) Get(i int) (E, error) {
	data := a.data()
	j, err := adjustIndex(i, len(data))
	if err != nil {
		return *new(E), err
	}
	return data[j], nil
}

// Set writes v at index i. Negative indices count from the end.
func (a *Array[E]) Set(i int, v E) error {
	j, err := adjustIndex(i, a.Len())
	if err != nil {
		return err
	}
	a.detach()[j] = v
	return nil
}

// Values returns a copy of the elements.
func (a *Array[E]) Values() []E {
	return slices.Clone(a.data())
}

// Iterate calls f with each element in order until f returns false.
func (a *Array[E]) Iterate(f func(i int, v E) bool) {
	for i, v := range a.data() {
		if !f(i, v) {
			return
		}
	}
}

// Append adds values to the end of a.
func (a *Array[E]) Append(values ...E) {
	if len(values) == 0 {
		return
	}
	if a.IsShared() {
		a.replace(append(slices.Clip(a.data()), values...))
		return
	}
	a.detach()
	a.buf.data = append(a.buf.data, values...)
}

// Resize changes the length of a to n, padding with the default value.
func (a *Array[E]) Resize(n int) {
	if n < 0 {
		n = 0
	}
	data := a.data()
	switch {
	case n == len(data):
	case n < len(data):
		a.replace(slices.Clone(data[:n]))
	default:
		a.Append(New[E](n - len(data)).data()...)
	}
}

func adjustIndex(i, n int) (int, error) {
	if i < 0 {
		if i < -n {
			return 0, errs.OutOfRangeIndex(i, n)
		}
		return i + n, nil
	}
	if i >= n {
		return 0, errs.OutOfRangeIndex(i, n)
	}
	return i, nil
}
