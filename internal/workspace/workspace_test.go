package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureAtCreatesAndIsIdempotent(t *testing.T) {
	base := filepath.Join(t.TempDir(), "data")

	got, err := EnsureAt(base)
	require.NoError(t, err)
	assert.Equal(t, base, got)

	info, err := os.Stat(base)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	_, err = EnsureAt(base)
	assert.NoError(t, err)
}
