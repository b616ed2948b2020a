package stage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestOpenCleansPreviousBatch(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(t.TempDir(), "Temp")
	writeFile(t, filepath.Join(dir, "old", "leftover.jpg"), "old")

	s, err := Open(root, dir, false)
	require.NoError(t, err)
	entries, err := os.ReadDir(s.Dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestOpenRefusesToSwallowRoot(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.jpg"), "precious")

	_, err := Open(root, root, false)
	require.Error(t, err)
	_, err = Open(filepath.Join(root, "sub"), root, false)
	require.Error(t, err)

	_, err = os.Stat(filepath.Join(root, "a.jpg"))
	require.NoError(t, err)
}

func TestMoveAndRestore(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "sessions", "jane.jpg")
	writeFile(t, src, "original")

	s, err := Open(root, filepath.Join(t.TempDir(), "Temp"), false)
	require.NoError(t, err)

	staged, err := s.Move(src)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(s.Dir, "sessions", "jane.jpg"), staged)
	require.Equal(t, 1, s.Len())
	_, err = os.Stat(src)
	require.True(t, os.IsNotExist(err))

	require.NoError(t, s.Restore(src))
	data, err := os.ReadFile(src)
	require.NoError(t, err)
	require.Equal(t, "original", string(data))
	require.Zero(t, s.Len())

	require.Error(t, s.Restore(src))
}

func TestMoveOutsideRoot(t *testing.T) {
	s, err := Open(t.TempDir(), filepath.Join(t.TempDir(), "Temp"), false)
	require.NoError(t, err)

	other := filepath.Join(t.TempDir(), "x.jpg")
	writeFile(t, other, "x")
	_, err = s.Move(other)
	require.Error(t, err)
}

func TestClose(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "a.jpg")

	for _, keep := range []bool{false, true} {
		writeFile(t, src, "a")
		s, err := Open(root, filepath.Join(t.TempDir(), "Temp"), keep)
		require.NoError(t, err)
		staged, err := s.Move(src)
		require.NoError(t, err)

		require.NoError(t, s.Close())
		_, err = os.Stat(staged)
		if keep {
			require.NoError(t, err)
		} else {
			require.True(t, os.IsNotExist(err))
		}
	}
}
