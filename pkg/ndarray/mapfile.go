package ndarray

import (
	"fmt"
	"os"
)

// MappedFile is the read-only contents of a file, usable as the buffer of a
// Descriptor until Close is called.
type MappedFile struct {
	data  []byte
	unmap func([]byte) error
}

// MapFile maps the named file read-only into memory. On platforms without
// memory mapping, the file is read instead.
func MapFile(name string) (*MappedFile, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size := fi.Size()
	if size != int64(int(size)) {
		return nil, fmt.Errorf("%s: file too large to map: %d bytes", name, size)
	}
	if size == 0 {
		return &MappedFile{}, nil
	}
	return mapFile(f, int(size))
}

// Bytes returns the file contents. The slice must not be written to and must
// not be used after Close.
func (m *MappedFile) Bytes() []byte { return m.data }

// Descriptor returns a 1-D contiguous descriptor of the file contents viewed
// as values of type d. Trailing bytes that do not make up a whole value are
// ignored.
func (m *MappedFile) Descriptor(d DType) Descriptor {
	n := 0
	if size := d.Size(); size > 0 {
		n = len(m.data) / size
	}
	return Contiguous(m.data, d, n)
}

// Close releases the mapping.
func (m *MappedFile) Close() error {
	data := m.data
	m.data = nil
	if data == nil || m.unmap == nil {
		return nil
	}
	return m.unmap(data)
}
