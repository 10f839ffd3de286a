//go:build linux || darwin

package atomicfs

import (
	"io/fs"
	"path"
	"time"

	"golang.org/x/sys/unix"
)

// fileInfo adapts a raw stat result to fs.FileInfo.
type fileInfo struct {
	name string
	st   unix.Stat_t
}

func newFileInfo(name string, st *unix.Stat_t) *fileInfo {
	return &fileInfo{name: path.Base(name), st: *st}
}

func (fi *fileInfo) Name() string { return fi.name }
func (fi *fileInfo) Size() int64  { return fi.st.Size }
func (fi *fileInfo) IsDir() bool  { return fi.Mode().IsDir() }
func (fi *fileInfo) Sys() any     { return &fi.st }

func (fi *fileInfo) ModTime() time.Time {
	return time.Unix(statMtime(&fi.st))
}

func (fi *fileInfo) Mode() fs.FileMode {
	mode := fs.FileMode(fi.st.Mode & 0o777)
	switch fi.st.Mode & unix.S_IFMT {
	case unix.S_IFDIR:
		mode |= fs.ModeDir
	case unix.S_IFLNK:
		mode |= fs.ModeSymlink
	case unix.S_IFBLK:
		mode |= fs.ModeDevice
	case unix.S_IFCHR:
		mode |= fs.ModeDevice | fs.ModeCharDevice
	case unix.S_IFIFO:
		mode |= fs.ModeNamedPipe
	case unix.S_IFSOCK:
		mode |= fs.ModeSocket
	}
	if fi.st.Mode&unix.S_ISGID != 0 {
		mode |= fs.ModeSetgid
	}
	if fi.st.Mode&unix.S_ISUID != 0 {
		mode |= fs.ModeSetuid
	}
	if fi.st.Mode&unix.S_ISVTX != 0 {
		mode |= fs.ModeSticky
	}
	return mode
}

// FileType is a coarse classification of a directory entry.
type FileType int

const (
	// TypeRegular is an ordinary file.
	TypeRegular FileType = iota
	// TypeDir is a directory.
	TypeDir
	// TypeSymlink is a symbolic link (not followed).
	TypeSymlink
	// TypeOther covers devices, sockets, and named pipes.
	TypeOther
)

// EntryType classifies a directory entry from [Dir.ReadDir]. Modern
// filesystems report the type in the entry itself; when that hint is
// missing the entry is stat'ed instead.
func (d *Dir) EntryType(e fs.DirEntry) (FileType, error) {
	t := e.Type()
	if t&fs.ModeIrregular != 0 {
		info, err := d.Stat(e.Name())
		if err != nil {
			return TypeOther, err
		}
		t = info.Mode().Type()
	}
	switch {
	case t.IsDir():
		return TypeDir, nil
	case t&fs.ModeSymlink != 0:
		return TypeSymlink, nil
	case t == 0:
		return TypeRegular, nil
	default:
		return TypeOther, nil
	}
}
