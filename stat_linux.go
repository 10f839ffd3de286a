//go:build linux

package atomicfs

import "golang.org/x/sys/unix"

func statMtime(st *unix.Stat_t) (sec, nsec int64) {
	return st.Mtim.Unix()
}
