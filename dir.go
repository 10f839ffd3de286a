//go:build linux || darwin

package atomicfs

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path"

	"golang.org/x/sys/unix"
)

// Dir is an open directory handle. All path arguments to its methods are
// resolved relative to it, so operations are immune to concurrent renames of
// the directory's own ancestors.
//
// A Dir is safe for concurrent use. It bounds the lifetime of every Writer
// created from it: close the writers first.
type Dir struct {
	f *os.File
}

// Open opens the directory at dirpath.
func Open(dirpath string) (*Dir, error) {
	f, err := os.OpenFile(dirpath, os.O_RDONLY|unix.O_DIRECTORY, 0)
	if err != nil {
		return nil, err
	}
	return &Dir{f: f}, nil
}

// Name returns the path the directory was opened with.
func (d *Dir) Name() string { return d.f.Name() }

// Close releases the directory descriptor.
func (d *Dir) Close() error { return d.f.Close() }

func (d *Dir) fd() int { return int(d.f.Fd()) }

// OpenFile opens the named file for reading.
func (d *Dir) OpenFile(name string) (*os.File, error) {
	fd, err := unix.Openat(d.fd(), name, unix.O_RDONLY|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, &os.PathError{Op: "openat", Path: name, Err: err}
	}
	return os.NewFile(uintptr(fd), name), nil
}

// OpenFileOptional is OpenFile with not-found folded into a (nil, nil)
// result. All other errors are returned unchanged.
func (d *Dir) OpenFileOptional(name string) (*os.File, error) {
	f, err := d.OpenFile(name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return f, err
}

// SubDir opens the named subdirectory as a new Dir.
func (d *Dir) SubDir(name string) (*Dir, error) {
	fd, err := unix.Openat(d.fd(), name, unix.O_RDONLY|unix.O_DIRECTORY|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, &os.PathError{Op: "openat", Path: name, Err: err}
	}
	return &Dir{f: os.NewFile(uintptr(fd), path.Join(d.Name(), name))}, nil
}

// SubDirOptional is SubDir with not-found folded into a (nil, nil) result.
func (d *Dir) SubDirOptional(name string) (*Dir, error) {
	sub, err := d.SubDir(name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return sub, err
}

// Stat returns metadata for the named entry. Symbolic links are not
// followed.
func (d *Dir) Stat(name string) (fs.FileInfo, error) {
	var st unix.Stat_t
	if err := unix.Fstatat(d.fd(), name, &st, unix.AT_SYMLINK_NOFOLLOW); err != nil {
		return nil, &os.PathError{Op: "fstatat", Path: name, Err: err}
	}
	return newFileInfo(name, &st), nil
}

// StatOptional is Stat with not-found folded into a (nil, nil) result.
func (d *Dir) StatOptional(name string) (fs.FileInfo, error) {
	info, err := d.Stat(name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return info, err
}

// Exists reports whether the named entry exists. Symbolic links are not
// followed, so a dangling symlink exists.
func (d *Dir) Exists(name string) (bool, error) {
	info, err := d.StatOptional(name)
	if err != nil {
		return false, err
	}
	return info != nil, nil
}

// RemoveFile unlinks the named file.
func (d *Dir) RemoveFile(name string) error {
	if err := unix.Unlinkat(d.fd(), name, 0); err != nil {
		return &os.PathError{Op: "unlinkat", Path: name, Err: err}
	}
	return nil
}

// RemoveFileOptional is RemoveFile with not-found treated as success,
// making removal idempotent.
func (d *Dir) RemoveFileOptional(name string) error {
	err := d.RemoveFile(name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Rename renames oldname to newname within the directory, atomically
// replacing any existing file at newname.
func (d *Dir) Rename(oldname, newname string) error {
	if err := unix.Renameat(d.fd(), oldname, d.fd(), newname); err != nil {
		return &os.LinkError{Op: "renameat", Old: oldname, New: newname, Err: err}
	}
	return nil
}

// CreateDir creates the named directory with the given permission bits.
func (d *Dir) CreateDir(name string, mode os.FileMode) error {
	if err := unix.Mkdirat(d.fd(), name, uint32(mode.Perm())); err != nil {
		return &os.PathError{Op: "mkdirat", Path: name, Err: err}
	}
	return nil
}

// EnsureDir creates the named directory, treating already-exists as
// success.
func (d *Dir) EnsureDir(name string, mode os.FileMode) error {
	err := d.CreateDir(name, mode)
	if errors.Is(err, fs.ErrExist) {
		return nil
	}
	return err
}

// EnsureDirAll creates the named directory and all missing parents. It is
// idempotent. The single mkdirat covers the common case where the parents
// already exist; only a not-found answer pays for the component walk.
func (d *Dir) EnsureDirAll(name string, mode os.FileMode) error {
	err := d.CreateDir(name, mode)
	switch {
	case err == nil, errors.Is(err, fs.ErrExist):
		return nil
	case errors.Is(err, fs.ErrNotExist):
		return d.ensureDirAll(path.Clean(name), mode)
	default:
		return err
	}
}

// ensureDirAll walks up the path components, creating each directory in
// turn. This is the pessimistic path assuming no components exist.
func (d *Dir) ensureDirAll(name string, mode os.FileMode) error {
	if parent := path.Dir(name); parent != "." && parent != "/" && parent != name {
		if err := d.ensureDirAll(parent, mode); err != nil {
			return err
		}
	}
	return d.EnsureDir(name, mode)
}

// ReadDir lists the directory. The listing always starts from the
// beginning regardless of prior calls.
func (d *Dir) ReadDir() ([]fs.DirEntry, error) {
	if _, err := d.f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	return d.f.ReadDir(-1)
}
