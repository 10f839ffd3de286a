//go:build linux || darwin

package atomicfs

import (
	"os"

	"golang.org/x/sys/unix"

	"github.com/hupe1980/atomicfs/internal/randname"
)

// stagingPrefix hides the named staging files used where O_TMPFILE is
// unavailable.
const stagingPrefix = ".atomicfs-staging."

// stagedFile is an in-flight replacement target: an open file inside the
// directory that is not yet visible under its destination name.
type stagedFile struct {
	f *os.File
	// name is the hidden staging name, or "" when the file is truly
	// unnamed (O_TMPFILE).
	name string
}

// createStagedNamed creates a staging file under a hidden random name.
// This is the portable emulation of an unnamed temporary file.
func (d *Dir) createStagedNamed(mode os.FileMode) (*stagedFile, error) {
	for {
		name := randname.Generate(stagingPrefix, "")
		fd, err := unix.Openat(d.fd(), name, unix.O_WRONLY|unix.O_CREAT|unix.O_EXCL|unix.O_CLOEXEC, uint32(mode.Perm()))
		if err == unix.EEXIST {
			continue
		}
		if err != nil {
			return nil, &os.PathError{Op: "openat", Path: name, Err: err}
		}
		return &stagedFile{f: os.NewFile(uintptr(fd), name), name: name}, nil
	}
}

// linkNamed gives the staged file a second name via a hard link, so the
// collision protocol behaves identically to the unnamed case: EEXIST means
// retry with a fresh name.
func (sf *stagedFile) linkNamed(d *Dir, tmpname string) error {
	if err := unix.Linkat(d.fd(), sf.name, d.fd(), tmpname, 0); err != nil {
		return &os.LinkError{Op: "linkat", Old: sf.name, New: tmpname, Err: err}
	}
	return nil
}

// discard closes the staged file and removes its hidden staging name, if it
// has one. An unnamed file is reclaimed by the kernel on close; a name the
// file gained through link is unaffected.
func (sf *stagedFile) discard(d *Dir) {
	if sf.name != "" {
		_ = unix.Unlinkat(d.fd(), sf.name, 0)
		sf.name = ""
	}
	_ = sf.f.Close()
}
