//go:build darwin

package atomicfs

import "golang.org/x/sys/unix"

func statMtime(st *unix.Stat_t) (sec, nsec int64) {
	return st.Mtimespec.Unix()
}
