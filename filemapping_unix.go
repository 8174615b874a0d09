//go:build !windows

package linguist

import (
	"fmt"
	"math"
	"os"

	"golang.org/x/sys/unix"
)

// mapFile maps a regular file read-only. Empty files need no mapping and
// come back with a nil release.
func mapFile(f *os.File) (data []byte, release func() error, err error) {
	fi, err := f.Stat()
	if err != nil {
		return nil, nil, err
	}
	if !fi.Mode().IsRegular() {
		return nil, nil, fmt.Errorf("%s is not a regular file", fi.Name())
	}
	switch size := fi.Size(); {
	case size == 0:
		return nil, nil, nil
	case size > math.MaxInt:
		return nil, nil, fmt.Errorf("%s is too large to map", fi.Name())
	}

	data, err = unix.Mmap(int(f.Fd()), 0, int(fi.Size()), unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot map %s: %w", fi.Name(), err)
	}
	return data, func() error { return unix.Munmap(data) }, nil
}
