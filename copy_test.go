//go:build linux || darwin

package atomicfs

import (
	"bytes"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeSourceFile(t *testing.T, content []byte) *os.File {
	t.Helper()
	f, err := os.Create(filepath.Join(t.TempDir(), "src"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	_, err = f.Write(content)
	require.NoError(t, err)
	_, err = f.Seek(0, 0)
	require.NoError(t, err)
	return f
}

func makeDestFile(t *testing.T) *os.File {
	t.Helper()
	f, err := os.Create(filepath.Join(t.TempDir(), "dst"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func randomContent(t *testing.T, n int) []byte {
	t.Helper()
	buf := make([]byte, n)
	rng := rand.New(rand.NewSource(42))
	_, err := rng.Read(buf)
	require.NoError(t, err)
	return buf
}

func TestCopyToRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		size int
	}{
		{name: "empty", size: 0},
		{name: "small", size: 11},
		{name: "one chunk", size: DefaultCopyChunkSize},
		{name: "spans chunks", size: 3*DefaultCopyChunkSize + 17},
		{name: "large", size: 1 << 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := randomContent(t, tt.size)
			src := makeSourceFile(t, content)
			dst := makeDestFile(t)

			n, err := CopyTo(src, dst)
			require.NoError(t, err)
			assert.Equal(t, int64(tt.size), n)

			got, err := os.ReadFile(dst.Name())
			require.NoError(t, err)
			assert.True(t, bytes.Equal(content, got))
		})
	}
}

func TestCopyToChunkSizeOption(t *testing.T) {
	content := randomContent(t, 1000)
	src := makeSourceFile(t, content)
	dst := makeDestFile(t)

	n, err := CopyTo(src, dst, func(o *CopyOptions) { o.ChunkSize = 7 })
	require.NoError(t, err)
	assert.Equal(t, int64(len(content)), n)

	got, err := os.ReadFile(dst.Name())
	require.NoError(t, err)
	assert.True(t, bytes.Equal(content, got))
}

func TestFallbackCopyEquivalence(t *testing.T) {
	content := randomContent(t, 2*DefaultCopyChunkSize+33)

	fastSrc := makeSourceFile(t, content)
	fastDst := makeDestFile(t)
	fastN, err := CopyTo(fastSrc, fastDst)
	require.NoError(t, err)

	slowSrc := makeSourceFile(t, content)
	slowDst := makeDestFile(t)
	slowN, err := fallbackCopy(slowSrc, slowDst, DefaultCopyChunkSize)
	require.NoError(t, err)

	assert.Equal(t, fastN, slowN)

	fast, err := os.ReadFile(fastDst.Name())
	require.NoError(t, err)
	slow, err := os.ReadFile(slowDst.Name())
	require.NoError(t, err)
	assert.True(t, bytes.Equal(fast, slow))
	assert.True(t, bytes.Equal(content, slow))
}

func TestFallbackCopyEmpty(t *testing.T) {
	src := makeSourceFile(t, nil)
	dst := makeDestFile(t)

	n, err := fallbackCopy(src, dst, DefaultCopyChunkSize)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestCopyToIntoWriter(t *testing.T) {
	// Typical composition: stage a copy of an existing file, then publish
	// it atomically.
	d := newTestDir(t)
	content := randomContent(t, 100*1024)
	require.NoError(t, d.WriteFileContents("source", 0o644, content))

	src, err := d.OpenFile("source")
	require.NoError(t, err)
	defer src.Close()

	w, err := d.NewFileWriter("clone", 0o644)
	require.NoError(t, err)

	err = w.CompleteWith(func(f *os.File) error {
		_, err := CopyTo(src, f)
		return err
	})
	require.NoError(t, err)

	assert.Equal(t, content, readFileIn(t, d, "clone"))
}
