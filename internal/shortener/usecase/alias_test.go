package usecase

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAliasGenerator_Generate(t *testing.T) {
	gen := NewAliasGenerator()

	t.Run("random alias has expected length and charset", func(t *testing.T) {
		alias, err := gen.Generate("")
		require.NoError(t, err)
		assert.Len(t, alias, aliasLength)
		for _, r := range alias {
			assert.True(t, strings.ContainsRune(aliasAlphabet, r),
				"unexpected character %q in alias %q", r, alias)
		}
	})

	t.Run("custom alias is returned verbatim", func(t *testing.T) {
		alias, err := gen.Generate("My-Custom_Alias123")
		require.NoError(t, err)
		assert.Equal(t, "My-Custom_Alias123", alias)
	})

	t.Run("successive aliases differ", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 0; i < 50; i++ {
			alias, err := gen.Generate("")
			require.NoError(t, err)
			assert.False(t, seen[alias], "duplicate alias %q after %d draws", alias, i)
			seen[alias] = true
		}
	})
}
