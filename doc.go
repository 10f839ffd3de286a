// Package atomicfs provides crash-safe file replacement and accelerated
// whole-file copies for POSIX systems.
//
// # Directory Handles
//
// All operations resolve names relative to an open directory descriptor
// ([Dir]) via the *at syscall family, never against the process working
// directory. This removes the path-based races (TOCTOU) inherent to
// whole-path APIs:
//
//	d, _ := atomicfs.Open("/var/lib/myapp")
//	defer d.Close()
//
//	f, err := d.OpenFile("state.json")
//
// Checking for nonexistent files is by far the most common error inspection
// on Unix, so every lookup operation has an Optional variant that folds
// not-found into an absent result:
//
//	f, err := d.OpenFileOptional("state.json")
//	if err != nil { ... }   // a real error
//	if f == nil { ... }     // the file does not exist
//
// # Atomic Replacement
//
// [Dir.NewFileWriter] returns a [Writer] that stages content in a file with
// no visible name (O_TMPFILE where the kernel and filesystem support it, a
// hidden randomly named file otherwise). Nothing at the destination name is
// touched until [Writer.Complete], which links the staged content to a
// random temporary name and renames it over the destination in one atomic
// step. An external observer sees either the complete old content or the
// complete new content, never anything in between:
//
//	err := d.WriteFileContents("state.json", 0o644, data)
//
// Every Writer must be finished with exactly one of Complete, CompleteWith,
// or Abandon. A Writer the garbage collector finds unfinished panics: it
// means a code path dropped its error handling on the floor.
//
// # Accelerated Copy
//
// [CopyTo] copies the full contents of one open file to another. On Linux it
// uses copy_file_range, which moves bytes without transiting user space and
// lets some filesystems share extents. Kernels or filesystems that cannot
// service the syscall are detected once per process and the copy falls back
// to a positioned read/write loop with identical results.
package atomicfs
