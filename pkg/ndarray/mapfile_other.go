//go:build !unix

package ndarray

import (
	"io"
	"os"
)

func mapFile(f *os.File, size int) (*MappedFile, error) {
	data := make([]byte, size)
	if _, err := io.ReadFull(f, data); err != nil {
		return nil, err
	}
	return &MappedFile{data: data}, nil
}
