package invitation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateFormat(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 3; i++ {
		code, err := Generate("maison")
		require.NoError(t, err)
		assert.Regexp(t, `^MAISON-[A-HJ-NP-Z2-9]{5}$`, code)
		assert.True(t, Valid(code))
		assert.False(t, seen[code], "duplicate code %s", code)
		seen[code] = true
	}
}

func TestGenerateNeverUsesAmbiguousCharacters(t *testing.T) {
	for i := 0; i < 500; i++ {
		code, err := Generate("X")
		require.NoError(t, err)
		assert.NotContains(t, code[2:], "0")
		assert.NotContains(t, code[2:], "1")
		assert.NotContains(t, code[2:], "O")
		assert.NotContains(t, code[2:], "I")
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "MAISON-ABCDE", Normalize("  maison-abcde "))
	assert.False(t, Valid("MAISON-ABC0E"))
}
