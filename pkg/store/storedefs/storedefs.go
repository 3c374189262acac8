// Package storedefs contains definitions of the store API.
//
// It is a separate package so that packages that only depend on the store API
// does not need to depend on the concrete implementation.
package storedefs

import (
	"errors"

	"src.vt.sh/pkg/vt"
)

// ErrNotFound is returned when there is no array or edit with the requested
// name.
var ErrNotFound = errors.New("not found")

// Store is an interface satisfied by the storage service.
type Store interface {
	PutArray(name string, v vt.Value) error
	Array(name string) (vt.Value, error)
	DelArray(name string) error
	ArrayNames() ([]string, error)

	PutEditRecord(name string, r EditRecord) error
	EditRecord(name string) (EditRecord, error)
	DelEdit(name string) error
	EditNames() ([]string, error)

	GrammarVersion() (int, error)
}

// EditRecord is the stored form of an edit: the serialization data of the
// edit, with the values in their textual form.
type EditRecord struct {
	Values  string
	Indexes []int64
	Dense   bool
}
