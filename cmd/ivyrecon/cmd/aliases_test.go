package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergedAliases(t *testing.T) {
	t.Cleanup(func() {
		aliasFiles = nil
		aliasNoDefaults = false
	})

	path := filepath.Join(t.TempDir(), "extra.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pet:\n  - pet insurance\n"), 0o644))

	t.Run("user file merges over defaults", func(t *testing.T) {
		aliasFiles = []string{path}
		aliasNoDefaults = false

		tbl, err := mergedAliases()
		require.NoError(t, err)
		assert.Contains(t, tbl.Canonicals(), "medical")
		assert.Contains(t, tbl.Canonicals(), "pet")
	})

	t.Run("no-defaults keeps only user files", func(t *testing.T) {
		aliasFiles = []string{path}
		aliasNoDefaults = true

		tbl, err := mergedAliases()
		require.NoError(t, err)
		assert.Equal(t, []string{"pet"}, tbl.Canonicals())
	})
}
