package gitgo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/colinmarc/gitgo/ginternals/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTreeBuilderInsertRejectsInvalidMode(t *testing.T) {
	t.Parallel()

	r, err := Init(t.TempDir())
	require.NoError(t, err)

	tb := r.NewTreeBuilder()
	err = tb.Insert("somewhere", object.New(object.TypeBlob, []byte("x")).ID(), object.TreeObjectMode(0))
	assert.Error(t, err)
}

func TestTreeBuilderWrite(t *testing.T) {
	t.Parallel()

	r, err := Init(t.TempDir())
	require.NoError(t, err)

	blob, err := r.NewBlob([]byte("hello\n"))
	require.NoError(t, err)

	tb := r.NewTreeBuilder()
	require.NoError(t, tb.Insert("b.txt", blob.ID(), object.ModeFile))
	require.NoError(t, tb.Insert("a.txt", blob.ID(), object.ModeFile))

	tree, err := tb.Write()
	require.NoError(t, err)

	entries := tree.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "a.txt", entries[0].Path, "entries must come out in canonical sorted order")
	assert.Equal(t, "b.txt", entries[1].Path)
}

func TestWriteTreeWalksWorkingDirectory(t *testing.T) {
	t.Parallel()

	r, err := Init(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(r.WorkDir(), "x"), []byte("hello"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(r.WorkDir(), "a", "b"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(r.WorkDir(), "a", "b", "y"), []byte("World"), 0o644))

	oid, err := r.WriteTree(r.WorkDir())
	require.NoError(t, err)

	o, err := r.GetObject(oid)
	require.NoError(t, err)
	tree, err := o.AsTree()
	require.NoError(t, err)

	entries := tree.Entries()
	require.Len(t, entries, 2, "the .git directory must be excluded")

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Path
	}
	assert.Contains(t, names, "a")
	assert.Contains(t, names, "x")
}
