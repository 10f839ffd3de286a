//go:build linux || darwin

package atomicfs

import (
	"io"
	"os"
)

// DefaultCopyChunkSize is the read/write granularity of the fallback copy
// path.
const DefaultCopyChunkSize = 8192

// CopyOptions configures CopyTo.
type CopyOptions struct {
	// ChunkSize is the buffer size used by the positioned read/write
	// fallback path. Defaults to DefaultCopyChunkSize.
	ChunkSize int
}

// CopyTo copies the entire contents of src to dst, starting at offset zero
// in both files, and returns the number of bytes copied.
//
// On Linux the copy runs in the kernel via copy_file_range, which avoids
// transiting user-space buffers and lets reflink-capable filesystems share
// extents. The first time the running kernel reports the syscall as
// unavailable it is remembered process-wide and never probed again. Files
// the syscall cannot service (other filesystems, pipes, device nodes) fall
// back to an explicit positioned read/write loop with identical results.
//
// The accelerated path consumes the descriptors' own file offsets, so both
// handles should be freshly opened or rewound.
func CopyTo(src, dst *os.File, optFns ...func(*CopyOptions)) (int64, error) {
	opts := CopyOptions{ChunkSize: DefaultCopyChunkSize}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = DefaultCopyChunkSize
	}
	return copyTo(src, dst, opts.ChunkSize)
}

// fallbackCopy copies via positioned reads and writes. It relies on no
// file-cursor state, so it is safe even when src and dst are the same
// underlying file opened twice.
func fallbackCopy(src, dst *os.File, chunkSize int) (int64, error) {
	buf := make([]byte, chunkSize)
	var off int64
	for {
		n, err := src.ReadAt(buf, off)
		if n > 0 {
			if _, werr := dst.WriteAt(buf[:n], off); werr != nil {
				return off, werr
			}
			off += int64(n)
		}
		if err == io.EOF {
			return off, nil
		}
		if err != nil {
			return off, err
		}
	}
}
