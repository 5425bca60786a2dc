package object_test

import (
	"testing"

	"github.com/colinmarc/gitgo/ginternals/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	o := object.New(object.TypeBlob, []byte("hello world"))
	assert.Equal(t, "95d09f2b10159347eece71399a7e2e907ea3df4f", o.ID().String(), "should match git's known id for this content")
	assert.Equal(t, object.TypeBlob, o.Type())
	assert.Equal(t, 11, o.Size())
}

func TestObjectEmptyBlob(t *testing.T) {
	t.Parallel()

	o := object.New(object.TypeBlob, nil)
	assert.Equal(t, "e69de29bb2d1d6434b8b29ae775ad8c2e48c5391", o.ID().String(), "empty blob should have git's well-known id")
}

func TestCompress(t *testing.T) {
	t.Parallel()

	o := object.New(object.TypeBlob, []byte("hello world"))
	compressed, err := o.Compress()
	require.NoError(t, err)
	assert.NotEmpty(t, compressed)
}

func TestTypeString(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		typ      object.Type
		expected string
	}{
		{object.TypeCommit, "commit"},
		{object.TypeTree, "tree"},
		{object.TypeBlob, "blob"},
		{object.TypeTag, "tag"},
		{object.TypeDeltaOFS, "ofs-delta"},
		{object.TypeDeltaRef, "ref-delta"},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.expected, tc.typ.String())
	}
}

func TestNewTypeFromString(t *testing.T) {
	t.Parallel()

	typ, err := object.NewTypeFromString("blob")
	require.NoError(t, err)
	assert.Equal(t, object.TypeBlob, typ)

	_, err = object.NewTypeFromString("nope")
	assert.ErrorIs(t, err, object.ErrObjectUnknown)
}
