package driver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDiscoverWalksDirectoriesAndFiltersExtensions(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.c"), []byte("int x;"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "readme.md"), []byte("hi"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(root, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", "b.cpp"), []byte("int y;"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(root, "vendor"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "vendor", "c.c"), []byte("int z;"), 0o644))

	got, err := Discover([]string{root}, nil, nil)
	require.NoError(t, err)
	require.Len(t, got, 2)
}

func TestDiscoverAcceptsExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "only.c")
	require.NoError(t, os.WriteFile(path, []byte("int x;"), 0o644))

	got, err := Discover([]string{path}, nil, nil)
	require.NoError(t, err)
	require.Equal(t, []string{path}, got)
}

func TestDiscoverExcludeFiltersSubstringMatches(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "keep.c"), []byte("int x;"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "keep_test.c"), []byte("int x;"), 0o644))

	got, err := Discover([]string{root}, nil, []string{"_test"})
	require.NoError(t, err)
	require.Len(t, got, 1)
}
