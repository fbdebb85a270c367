package connectors

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isCSV(path string) bool {
	return strings.HasSuffix(path, ".csv")
}

func TestDiscoverFiles(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "nested"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.csv"), []byte("x\n1\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "b.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "nested", "c.csv"), []byte("x\n1\n2\n3\n"), 0644))

	files, err := DiscoverFiles(root, isCSV, DiscoveryOptions{})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, filepath.Join(root, "a.csv"), files[0].Path)

	files, err = DiscoverFiles(root, isCSV, DiscoveryOptions{Recursive: true})
	require.NoError(t, err)
	assert.Len(t, files, 2)

	files, err = DiscoverFiles(root, isCSV, DiscoveryOptions{Recursive: true, MinSize: 5})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, int64(8), files[0].Size)
}

func TestDiscoverFilesErrors(t *testing.T) {
	_, err := DiscoverFiles("", isCSV, DiscoveryOptions{})
	assert.Error(t, err)

	_, err = DiscoverFiles(filepath.Join(t.TempDir(), "nope"), isCSV, DiscoveryOptions{})
	assert.ErrorContains(t, err, "does not exist")

	_, err = DiscoverFiles(t.TempDir(), isCSV, DiscoveryOptions{})
	assert.ErrorContains(t, err, "no matching files")
}
