//go:build linux || darwin

package atomicfs

import (
	"bufio"
	"errors"
	"io"
	"io/fs"
	"os"
	"runtime"

	"github.com/hupe1980/atomicfs/internal/randname"
)

// Default affixes for the visible temporary name a writer links its staged
// content to just before the final rename.
const (
	DefaultTmpPrefix = ".tmp."
	DefaultTmpSuffix = ".tmp"
)

// maxTmpNameAttempts bounds the temp-name collision retry loop. With eight
// random alphanumeric characters per candidate a second iteration is already
// rare; the cap is a circuit breaker against a pathological directory.
const maxTmpNameAttempts = 1000

// ErrTempNameExhausted is returned when no free temporary name could be
// found after maxTmpNameAttempts candidates.
var ErrTempNameExhausted = errors.New("atomicfs: temporary name space exhausted")

// Writer stages one atomic replacement of a file. Bytes written to it land
// in a staging file with no visible name; the destination is not touched
// until Complete, at which point it atomically holds the full new content.
//
// Exactly one of Complete, CompleteWith, or Abandon must be called, exactly
// once. A Writer the garbage collector finds unfinished panics, because it
// means a code path neither handled its error nor its success. A Writer is
// single-owner: do not share one instance between goroutines.
type Writer struct {
	// TmpPrefix and TmpSuffix frame the eight random characters of the
	// visible temporary name. Override them before calling Complete.
	TmpPrefix string
	TmpSuffix string

	dir       *Dir
	staged    *stagedFile
	bw        *bufio.Writer
	destname  string
	finalized bool
}

// NewFileWriter returns a Writer that will atomically create or replace
// destname with permission bits mode. The staging file is allocated
// immediately, so creation fails up front if the directory cannot take new
// files.
func (d *Dir) NewFileWriter(destname string, mode os.FileMode) (*Writer, error) {
	sf, err := d.createStaged(mode)
	if err != nil {
		return nil, err
	}
	w := &Writer{
		TmpPrefix: DefaultTmpPrefix,
		TmpSuffix: DefaultTmpSuffix,
		dir:       d,
		staged:    sf,
		bw:        bufio.NewWriter(sf.f),
		destname:  destname,
	}
	runtime.SetFinalizer(w, func(w *Writer) {
		panic("atomicfs: Writer garbage collected without Complete or Abandon")
	})
	return w, nil
}

// Write buffers p into the staging file. The destination name is not
// touched.
func (w *Writer) Write(p []byte) (int, error) {
	return w.bw.Write(p)
}

// Preallocate hints the expected total content size to the filesystem so it
// can reserve contiguous space. The hint does not change the file size.
// Filesystems without preallocation support ignore it.
func (w *Writer) Preallocate(n int64) error {
	return preallocate(w.staged.f, n)
}

// disarm marks the writer as finalized. Even if a later commit step fails
// the writer counts as properly finished: the contract is that no staging
// file leaks, not that commits cannot fail.
func (w *Writer) disarm() {
	if w.finalized {
		panic("atomicfs: Writer finalized twice")
	}
	w.finalized = true
	runtime.SetFinalizer(w, nil)
}

// CompleteWith flushes buffered data, invokes fn on the underlying staging
// file, and publishes the content at the destination name. The hook runs
// before the file becomes visible, so it can adjust mode, ownership, or
// extended attributes, or sync the content to disk. A hook error aborts the
// commit and leaves the destination untouched.
//
// Publication links the staged file to a random temporary name (retrying on
// collision) and renames that over the destination; the rename is the single
// operation that makes the new content observable. On rename failure the
// temporary name is removed best-effort and the destination keeps its old
// content.
func (w *Writer) CompleteWith(fn func(*os.File) error) error {
	w.disarm()
	if err := w.bw.Flush(); err != nil {
		w.staged.discard(w.dir)
		return err
	}
	if err := fn(w.staged.f); err != nil {
		w.staged.discard(w.dir)
		return err
	}
	tmpname, err := w.linkTemp()
	if err != nil {
		w.staged.discard(w.dir)
		return err
	}
	// The content now has its visible temporary name; the handle and any
	// hidden staging name are no longer needed.
	w.staged.discard(w.dir)
	if err := w.dir.Rename(tmpname, w.destname); err != nil {
		_ = w.dir.RemoveFile(tmpname)
		return err
	}
	return nil
}

// linkTemp links the staged file to a fresh random visible name, retrying
// with a new name on collision.
func (w *Writer) linkTemp() (string, error) {
	for i := 0; i < maxTmpNameAttempts; i++ {
		tmpname := randname.Generate(w.TmpPrefix, w.TmpSuffix)
		err := w.staged.link(w.dir, tmpname)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", err
		}
		return tmpname, nil
	}
	return "", ErrTempNameExhausted
}

// Complete flushes buffered data and publishes the content at the
// destination name. The content is not explicitly synced to disk; use
// CompleteWith with [os.File.Sync] when durability over a crash is
// required.
func (w *Writer) Complete() error {
	return w.CompleteWith(func(*os.File) error { return nil })
}

// Abandon discards all buffered and staged data with no visible effect.
// The staging file was never linked under the destination name, so there is
// nothing to clean up there. Abandon is the cancellation mechanism and is
// always safe to call before Complete.
func (w *Writer) Abandon() {
	w.disarm()
	w.staged.discard(w.dir)
	w.bw = nil
}

// WriteFileWith atomically creates or replaces destname, calling fn to
// produce the contents. If fn fails, the replacement is abandoned and the
// destination keeps its previous state.
//
// The contents are not explicitly synced to disk; see WriteFileWithSync.
func (d *Dir) WriteFileWith(destname string, mode os.FileMode, fn func(w io.Writer) error) error {
	w, err := d.NewFileWriter(destname, mode)
	if err != nil {
		return err
	}
	if err := fn(w); err != nil {
		w.Abandon()
		return err
	}
	return w.Complete()
}

// WriteFileWithSync is WriteFileWith with an fsync of the new content
// before it is published.
func (d *Dir) WriteFileWithSync(destname string, mode os.FileMode, fn func(w io.Writer) error) error {
	w, err := d.NewFileWriter(destname, mode)
	if err != nil {
		return err
	}
	if err := fn(w); err != nil {
		w.Abandon()
		return err
	}
	return w.CompleteWith((*os.File).Sync)
}

// WriteFileContents atomically creates or replaces destname with the given
// contents.
func (d *Dir) WriteFileContents(destname string, mode os.FileMode, contents []byte) error {
	return d.WriteFileWith(destname, mode, func(w io.Writer) error {
		_, err := w.Write(contents)
		return err
	})
}
