//go:build darwin

package atomicfs

import "os"

// Darwin has no unnamed-file primitive; staging always goes through a
// hidden named file.
func (d *Dir) createStaged(mode os.FileMode) (*stagedFile, error) {
	return d.createStagedNamed(mode)
}

func (sf *stagedFile) link(d *Dir, tmpname string) error {
	return sf.linkNamed(d, tmpname)
}
