package vt

import (
	"src.vt.sh/pkg/kind"
	"src.vt.sh/pkg/ndarray"
)

// Value is implemented by arrays of every kind. It allows arrays to be handled
// without knowing their kind statically.
type Value interface {
	Kind() *kind.Kind
	Len() int
	// Repr returns the kind-tagged textual form, which Parse turns back into
	// an equal array.
	Repr() string
	// String returns a human-readable form without the kind tag.
	String() string
	Equal(other any) bool
	Hash() uint32
	// Export lends the storage out as an N-dimensional array descriptor.
	Export() (*ndarray.Exported, error)
}

var _ Value = (*Array[int32])(nil)
