// Package ndarray describes multi-dimensional arrays stored in buffers owned
// by someone else, and the contract for lending such buffers out.
//
// A Descriptor never owns its bytes. Whoever creates it promises that Data
// stays valid and unchanged until they say otherwise; for a Descriptor
// returned in an Exported, that is until Release is called.
package ndarray

import (
	"errors"
	"fmt"
	"sync"
)

// Descriptor describes a strided multi-dimensional array in a byte buffer.
type Descriptor struct {
	// Data is the buffer holding the array.
	Data []byte
	// Offset is the byte offset of the first value in Data.
	Offset int
	// DType is the type of each value.
	DType DType
	// Shape holds the extent of each dimension.
	Shape []int
	// Strides holds the byte distance between neighbours along each
	// dimension. Strides may be negative. A nil Strides means the array is
	// contiguous in row-major order.
	Strides []int
}

// Contiguous returns a row-major descriptor of the given shape packed at the
// start of data.
func Contiguous(data []byte, d DType, shape ...int) Descriptor {
	return Descriptor{Data: data, DType: d, Shape: shape}
}

// Len returns the total number of values.
func (d Descriptor) Len() int {
	n := 1
	for _, s := range d.Shape {
		n *= s
	}
	return n
}

// EffectiveStrides returns Strides, or the row-major strides if Strides is nil.
func (d Descriptor) EffectiveStrides() []int {
	if d.Strides != nil {
		return d.Strides
	}
	strides := make([]int, len(d.Shape))
	stride := d.DType.Size()
	for i := len(d.Shape) - 1; i >= 0; i-- {
		strides[i] = stride
		stride *= d.Shape[i]
	}
	return strides
}

// IsContiguous reports whether the values are packed in row-major order.
func (d Descriptor) IsContiguous() bool {
	if d.Strides == nil {
		return true
	}
	stride := d.DType.Size()
	for i := len(d.Shape) - 1; i >= 0; i-- {
		if d.Shape[i] != 1 && d.Strides[i] != stride {
			return false
		}
		stride *= d.Shape[i]
	}
	return true
}

var errNoDims = errors.New("array has no dimensions")

// Validate checks that the descriptor is well-formed and that every value it
// addresses lies within Data.
func (d Descriptor) Validate() error {
	size := d.DType.Size()
	if size == 0 {
		return fmt.Errorf("invalid dtype %d", d.DType)
	}
	if len(d.Shape) == 0 {
		return errNoDims
	}
	if d.Strides != nil && len(d.Strides) != len(d.Shape) {
		return fmt.Errorf("%d strides given for %d dimensions", len(d.Strides), len(d.Shape))
	}
	for i, s := range d.Shape {
		if s < 0 {
			return fmt.Errorf("dimension %d has negative extent %d", i, s)
		}
	}
	if d.Len() == 0 {
		return nil
	}
	lo, hi := d.Offset, d.Offset
	for i, s := range d.EffectiveStrides() {
		span := s * (d.Shape[i] - 1)
		if span < 0 {
			lo += span
		} else {
			hi += span
		}
	}
	if lo < 0 || hi+size > len(d.Data) {
		return fmt.Errorf("array addresses bytes %d to %d, outside buffer of %d bytes",
			lo, hi+size, len(d.Data))
	}
	return nil
}

// Walk calls f with the byte offset of every value in row-major order.
func (d Descriptor) Walk(f func(off int)) {
	if d.Len() == 0 {
		return
	}
	strides := d.EffectiveStrides()
	idx := make([]int, len(d.Shape))
	off := d.Offset
	for {
		f(off)
		dim := len(d.Shape) - 1
		for ; dim >= 0; dim-- {
			idx[dim]++
			off += strides[dim]
			if idx[dim] < d.Shape[dim] {
				break
			}
			off -= strides[dim] * idx[dim]
			idx[dim] = 0
		}
		if dim < 0 {
			return
		}
	}
}

// Exported is a Descriptor lent out by the owner of its buffer.
type Exported struct {
	Descriptor
	once    sync.Once
	release func()
}

// NewExported returns an Exported that calls release once when released.
func NewExported(d Descriptor, release func()) *Exported {
	return &Exported{Descriptor: d, release: release}
}

// Release ends the loan. The Descriptor must not be used afterwards. Calling
// Release more than once has no further effect.
func (e *Exported) Release() {
	e.once.Do(func() {
		if e.release != nil {
			e.release()
		}
	})
}
