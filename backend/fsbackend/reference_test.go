package fsbackend_test

import (
	"testing"

	"github.com/colinmarc/gitgo/ginternals"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAndReadReference(t *testing.T) {
	t.Parallel()

	b := newTestBackend(t)
	oid := ginternals.NewOidFromContent([]byte("commit"))
	ref := ginternals.NewReference("refs/heads/main", oid)

	require.NoError(t, b.WriteReference(ref))

	got, err := b.Reference("refs/heads/main")
	require.NoError(t, err)
	assert.Equal(t, oid, got.Target())
	assert.Equal(t, ginternals.OidReference, got.Type())
}

func TestWriteReferenceOverwrites(t *testing.T) {
	t.Parallel()

	b := newTestBackend(t)
	oid1 := ginternals.NewOidFromContent([]byte("one"))
	oid2 := ginternals.NewOidFromContent([]byte("two"))

	require.NoError(t, b.WriteReference(ginternals.NewReference("refs/heads/main", oid1)))
	require.NoError(t, b.WriteReference(ginternals.NewReference("refs/heads/main", oid2)))

	got, err := b.Reference("refs/heads/main")
	require.NoError(t, err)
	assert.Equal(t, oid2, got.Target())
}

func TestWriteReferenceSafeRejectsExisting(t *testing.T) {
	t.Parallel()

	b := newTestBackend(t)
	oid := ginternals.NewOidFromContent([]byte("commit"))
	ref := ginternals.NewReference("refs/heads/main", oid)

	require.NoError(t, b.WriteReferenceSafe(ref))
	err := b.WriteReferenceSafe(ref)
	assert.ErrorIs(t, err, ginternals.ErrRefExists)
}

func TestSymbolicReference(t *testing.T) {
	t.Parallel()

	b := newTestBackend(t)
	oid := ginternals.NewOidFromContent([]byte("commit"))
	require.NoError(t, b.WriteReference(ginternals.NewReference("refs/heads/main", oid)))
	require.NoError(t, b.WriteReference(ginternals.NewSymbolicReference(ginternals.Head, "refs/heads/main")))

	got, err := b.Reference(ginternals.Head)
	require.NoError(t, err)
	assert.Equal(t, ginternals.SymbolicReference, got.Type())
	assert.Equal(t, oid, got.Target())
}

func TestReferenceNotFound(t *testing.T) {
	t.Parallel()

	b := newTestBackend(t)
	_, err := b.Reference("refs/heads/missing")
	assert.ErrorIs(t, err, ginternals.ErrRefNotFound)
}

func TestWriteReferenceInvalidName(t *testing.T) {
	t.Parallel()

	b := newTestBackend(t)
	ref := ginternals.NewReference("refs/heads/bad..name", ginternals.NullOid)
	assert.ErrorIs(t, b.WriteReference(ref), ginternals.ErrRefNameInvalid)
}
