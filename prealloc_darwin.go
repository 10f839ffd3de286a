//go:build darwin

package atomicfs

import "os"

func preallocate(*os.File, int64) error {
	// No fallocate equivalent worth the fcntl F_PREALLOCATE contortions;
	// the hint is advisory.
	return nil
}
