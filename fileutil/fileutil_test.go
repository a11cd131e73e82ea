package fileutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExists(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	name := filepath.Join(base, "test")
	require.NoError(t, os.WriteFile(name, nil, 0o600))

	require.True(t, Exists(base))
	require.True(t, Exists(name))
	require.False(t, Exists(filepath.Join(base, "missing")))
}

func TestHasPrefix(t *testing.T) {
	t.Parallel()

	tcases := []struct {
		path, prefix string
		has          bool
	}{
		{"/a", "/a", true},
		{"/a/b", "/a", true},
		{"/a/b", "/a/", true},
		{"/aa", "/a", false},
		{"/a", "/a/b", false},
		{"/b/a", "/a", false},
	}

	for _, tc := range tcases {
		require.Equal(t, tc.has, HasPrefix(tc.path, tc.prefix), "%q in %q", tc.path, tc.prefix)
	}
}

func TestRoots(t *testing.T) {
	t.Parallel()

	require.Equal(t, []string{"/a", "/aa", "/b"}, Roots([]string{"/b", "/a/x", "/aa", "/a/", "/a", "/b/c/d"}))
	require.Equal(t, []string{"/music/a.opus"}, Roots([]string{"/music/a.opus", "/music/./a.opus"}))
	require.Empty(t, Roots(nil))
}
