package object_test

import (
	"fmt"
	"testing"

	"github.com/colinmarc/gitgo/ginternals"
	"github.com/colinmarc/gitgo/ginternals/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTreeCanonicalOrder(t *testing.T) {
	t.Parallel()

	blobID := ginternals.NewOidFromContent([]byte("content"))

	// "foo.txt" sorts before "foo/" only once the directory entry is
	// compared as "foo/" rather than "foo" -- git orders "foo.txt"
	// before "foo/bar" because '.' (0x2e) < '/' (0x2f).
	tree := object.NewTree([]object.TreeEntry{
		{Mode: object.ModeDirectory, Path: "foo", ID: blobID},
		{Mode: object.ModeFile, Path: "foo.txt", ID: blobID},
	})

	entries := tree.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "foo.txt", entries[0].Path)
	assert.Equal(t, "foo", entries[1].Path)
}

func TestTreeRoundTrip(t *testing.T) {
	t.Parallel()

	blobID := ginternals.NewOidFromContent([]byte("content"))
	tree := object.NewTree([]object.TreeEntry{
		{Mode: object.ModeFile, Path: "blob", ID: blobID},
	})

	o := tree.ToObject()
	parsed, err := o.AsTree()
	require.NoError(t, err)
	assert.Equal(t, tree.ID(), parsed.ID())
	assert.Equal(t, tree.Entries(), parsed.Entries())
}

func TestTreeEntriesImmutable(t *testing.T) {
	t.Parallel()

	blobID := ginternals.NewOidFromContent([]byte("content"))
	tree := object.NewTree([]object.TreeEntry{
		{Mode: object.ModeFile, Path: "blob", ID: blobID},
	})

	entries := tree.Entries()
	entries[0].Path = "nope"
	assert.Equal(t, "blob", tree.Entries()[0].Path, "mutating a returned copy should not affect the tree")
}

func TestDirectoryModeWrittenWithoutLeadingZero(t *testing.T) {
	t.Parallel()

	blobID := ginternals.NewOidFromContent([]byte("content"))
	tree := object.NewTree([]object.TreeEntry{
		{Mode: object.ModeDirectory, Path: "sub", ID: blobID},
	})

	raw := tree.ToObject().Bytes()
	assert.Contains(t, string(raw), "40000 sub\x00", "git always writes directory mode as 40000, never 040000")
}

func TestTreeObjectMode(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		mode     object.TreeObjectMode
		expected object.Type
	}{
		{0o644, object.TypeBlob},
		{object.ModeFile, object.TypeBlob},
		{object.ModeExecutable, object.TypeBlob},
		{object.ModeSymLink, object.TypeBlob},
		{object.ModeDirectory, object.TypeTree},
		{object.ModeGitLink, object.TypeCommit},
	}
	for i, tc := range testCases {
		tc := tc
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, tc.mode.ObjectType())
		})
	}

	assert.True(t, object.ModeFile.IsValid())
	assert.False(t, object.TreeObjectMode(0o644).IsValid())
}

func TestNewTreeFromObjectRejectsInvalidMode(t *testing.T) {
	t.Parallel()

	blobID := ginternals.NewOidFromContent([]byte("content"))
	raw := []byte("100664 file.txt\x00")
	raw = append(raw, blobID.Bytes()...)

	_, err := object.New(object.TypeTree, raw).AsTree()
	assert.Error(t, err, "a non-standard mode like 100664 must be rejected")
}

func TestNewTreeFromObjectRejectsPathTraversal(t *testing.T) {
	t.Parallel()

	blobID := ginternals.NewOidFromContent([]byte("content"))
	raw := []byte("100644 ../../../etc/cron.d/x\x00")
	raw = append(raw, blobID.Bytes()...)

	_, err := object.New(object.TypeTree, raw).AsTree()
	assert.Error(t, err, "an entry name containing a path separator must be rejected")
}
