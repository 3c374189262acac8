//go:build unix

package ndarray

import (
	"os"

	"golang.org/x/sys/unix"
)

func mapFile(f *os.File, size int) (*MappedFile, error) {
	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, &os.PathError{Op: "mmap", Path: f.Name(), Err: err}
	}
	return &MappedFile{data: data, unmap: unix.Munmap}, nil
}
