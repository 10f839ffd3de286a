//go:build darwin

package atomicfs

import "os"

func copyTo(src, dst *os.File, chunkSize int) (int64, error) {
	return fallbackCopy(src, dst, chunkSize)
}
