//go:build linux

package atomicfs

import (
	"os"
	"sync/atomic"

	"golang.org/x/sys/unix"
)

// maxCopyChunk caps the length of a single copy_file_range call (1 GiB,
// matching the standard library's cap).
const maxCopyChunk = 1 << 30

// copyFileRangeSupported is the process-wide capability cache. It starts
// true and only ever flips to false, the first time the kernel answers
// ENOSYS or EPERM; kernel capability does not change within a process's
// lifetime, so it is never re-probed. Relaxed concurrent access is fine: a
// stale read costs one wasted syscall, never incorrect data.
var copyFileRangeSupported atomic.Bool

func init() {
	copyFileRangeSupported.Store(true)
}

func copyTo(src, dst *os.File, chunkSize int) (int64, error) {
	if !copyFileRangeSupported.Load() {
		return fallbackCopy(src, dst, chunkSize)
	}

	info, err := src.Stat()
	if err != nil {
		return 0, err
	}
	length := info.Size()

	var written int64
	for written < length {
		remain := length - written
		if remain > maxCopyChunk {
			remain = maxCopyChunk
		}
		// Nil offsets: the syscall reads and advances both descriptors'
		// own positions.
		n, err := unix.CopyFileRange(int(src.Fd()), nil, int(dst.Fd()), nil, int(remain), 0)
		if err != nil {
			switch err {
			case unix.ENOSYS, unix.EPERM:
				// Pre-4.5 kernel, or seccomp denies the syscall; it
				// will keep failing, so stop probing for the rest of
				// the process.
				copyFileRangeSupported.Store(false)
			}
			switch err {
			case unix.ENOSYS, unix.EPERM, unix.EXDEV, unix.EINVAL:
				if written == 0 {
					return fallbackCopy(src, dst, chunkSize)
				}
				// Bytes already moved and both offsets advanced in
				// step; the state is a consistent truncated copy, so
				// surface the error rather than splice paths mid-copy.
			}
			return written, os.NewSyscallError("copy_file_range", err)
		}
		if n == 0 {
			// Source shrank after the stat.
			break
		}
		written += int64(n)
	}
	return written, nil
}
