//go:build linux

package atomicfs

import (
	"os"

	"golang.org/x/sys/unix"
)

func preallocate(f *os.File, n int64) error {
	if n <= 0 {
		return nil
	}
	// KEEP_SIZE reserves the extent without extending the visible length;
	// callers may end up writing less than the hint.
	err := unix.Fallocate(int(f.Fd()), unix.FALLOC_FL_KEEP_SIZE, 0, n)
	if err == unix.EOPNOTSUPP {
		return nil
	}
	if err != nil {
		return &os.PathError{Op: "fallocate", Path: f.Name(), Err: err}
	}
	return nil
}
