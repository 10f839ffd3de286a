//go:build linux

package atomicfs

import (
	"errors"
	"os"
	"strconv"

	"golang.org/x/sys/unix"
)

// CreateUnnamedFile opens a writable file inside the directory that has the
// given permission bits but no name in any directory (O_TMPFILE). The file
// is reclaimed by the kernel when the handle closes, unless it is linked
// into the namespace with [Dir.LinkFileAt] first.
func (d *Dir) CreateUnnamedFile(mode os.FileMode) (*os.File, error) {
	fd, err := unix.Openat(d.fd(), ".", unix.O_TMPFILE|unix.O_WRONLY|unix.O_CLOEXEC, uint32(mode.Perm()))
	if err != nil {
		return nil, &os.PathError{Op: "openat", Path: d.Name(), Err: err}
	}
	return os.NewFile(uintptr(fd), d.Name()), nil
}

// LinkFileAt gives an open unnamed file (from [Dir.CreateUnnamedFile]) the
// given name within the directory. Fails with an already-exists error if
// the name is taken.
func (d *Dir) LinkFileAt(f *os.File, name string) error {
	// linkat cannot take a bare descriptor without privileges; the magic
	// /proc symlink route works for O_TMPFILE files on any kernel that
	// has O_TMPFILE.
	src := "/proc/self/fd/" + strconv.Itoa(int(f.Fd()))
	if err := unix.Linkat(unix.AT_FDCWD, src, d.fd(), name, unix.AT_SYMLINK_FOLLOW); err != nil {
		return &os.LinkError{Op: "linkat", Old: src, New: name, Err: err}
	}
	return nil
}

// createStaged opens the staging file for a new writer, preferring a truly
// unnamed O_TMPFILE file and falling back to a hidden named file on
// filesystems (or kernels) that cannot provide one.
func (d *Dir) createStaged(mode os.FileMode) (*stagedFile, error) {
	f, err := d.CreateUnnamedFile(mode)
	if err == nil {
		return &stagedFile{f: f}, nil
	}
	switch {
	case errors.Is(err, unix.EOPNOTSUPP), errors.Is(err, unix.EISDIR), errors.Is(err, unix.ENOENT):
		return d.createStagedNamed(mode)
	default:
		return nil, err
	}
}

func (sf *stagedFile) link(d *Dir, tmpname string) error {
	if sf.name != "" {
		return sf.linkNamed(d, tmpname)
	}
	return d.LinkFileAt(sf.f, tmpname)
}
