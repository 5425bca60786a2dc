package fsbackend_test

import (
	"testing"

	"github.com/colinmarc/gitgo/backend/fsbackend"
	"github.com/colinmarc/gitgo/ginternals"
	"github.com/colinmarc/gitgo/ginternals/object"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBackend(t *testing.T) *fsbackend.Backend {
	t.Helper()
	fs := afero.NewMemMapFs()
	b := fsbackend.New("/repo/.git", fs)
	require.NoError(t, b.Init())
	return b
}

func TestWriteAndReadObject(t *testing.T) {
	t.Parallel()

	b := newTestBackend(t)
	blob := object.NewBlobFromContent([]byte("hello world\n")).ToObject()

	oid, err := b.WriteObject(blob)
	require.NoError(t, err)
	assert.Equal(t, blob.ID(), oid)

	got, err := b.Object(oid)
	require.NoError(t, err)
	assert.Equal(t, blob.Bytes(), got.Bytes())
	assert.Equal(t, object.TypeBlob, got.Type())
}

func TestWriteObjectIdempotent(t *testing.T) {
	t.Parallel()

	b := newTestBackend(t)
	blob := object.NewBlobFromContent([]byte("same content")).ToObject()

	oid1, err := b.WriteObject(blob)
	require.NoError(t, err)
	oid2, err := b.WriteObject(blob)
	require.NoError(t, err)
	assert.Equal(t, oid1, oid2)
}

func TestHasObject(t *testing.T) {
	t.Parallel()

	b := newTestBackend(t)
	blob := object.NewBlobFromContent([]byte("content")).ToObject()

	has, err := b.HasObject(blob.ID())
	require.NoError(t, err)
	assert.False(t, has)

	_, err = b.WriteObject(blob)
	require.NoError(t, err)

	has, err = b.HasObject(blob.ID())
	require.NoError(t, err)
	assert.True(t, has)
}

func TestObjectNotFound(t *testing.T) {
	t.Parallel()

	b := newTestBackend(t)
	_, err := b.Object(ginternals.NewOidFromContent([]byte("nope")))
	assert.ErrorIs(t, err, ginternals.ErrObjectNotFound)
}

func TestObjectReadThroughCache(t *testing.T) {
	t.Parallel()

	b := newTestBackend(t)
	blob := object.NewBlobFromContent([]byte("cached")).ToObject()
	_, err := b.WriteObject(blob)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		got, err := b.Object(blob.ID())
		require.NoError(t, err)
		assert.Equal(t, blob.Bytes(), got.Bytes())
	}
}
