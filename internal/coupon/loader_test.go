package coupon

import (
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeGzipFile(t *testing.T, lines string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "coupons.gz")
	file, err := os.Create(path)
	require.NoError(t, err)
	defer file.Close()

	gz := gzip.NewWriter(file)
	_, err = gz.Write([]byte(lines))
	require.NoError(t, err)
	require.NoError(t, gz.Close())

	return path
}

func TestFileLoaderLoad(t *testing.T) {
	path := writeGzipFile(t, "SAVEBIG25\nFESTIVE10\n\n  PADDED99  \n")

	loader := NewFileLoader(zerolog.Nop())
	set, err := loader.Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, 3, set.Size())
	assert.True(t, set.Contains("SAVEBIG25"))
	assert.True(t, set.Contains("FESTIVE10"))
	assert.True(t, set.Contains("PADDED99"), "lines are trimmed")
	assert.False(t, set.Contains(""))
}

func TestFileLoaderMissingFile(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())

	_, err := loader.Load(context.Background(), filepath.Join(t.TempDir(), "absent.gz"))
	assert.Error(t, err)
}

func TestFileLoaderNotGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.txt")
	require.NoError(t, os.WriteFile(path, []byte("SAVEBIG25\n"), 0o644))

	loader := NewFileLoader(zerolog.Nop())
	_, err := loader.Load(context.Background(), path)
	assert.Error(t, err)
}
