package randname

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerate(t *testing.T) {
	name := Generate(".tmp.", ".tmp")

	assert.Len(t, name, len(".tmp.")+randLen+len(".tmp"))
	assert.True(t, strings.HasPrefix(name, ".tmp."))
	assert.True(t, strings.HasSuffix(name, ".tmp"))

	random := strings.TrimSuffix(strings.TrimPrefix(name, ".tmp."), ".tmp")
	for _, c := range random {
		assert.Contains(t, alphanumeric, string(c))
	}
}

func TestGenerateEmptyAffixes(t *testing.T) {
	name := Generate("", "")
	assert.Len(t, name, randLen)
}

func TestGenerateVaries(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 32; i++ {
		seen[Generate("p-", "-s")] = true
	}
	// 62^8 candidates; 32 draws colliding would mean a broken source.
	assert.Greater(t, len(seen), 1)
}
