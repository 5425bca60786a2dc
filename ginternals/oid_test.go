package ginternals

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOidString(t *testing.T) {
	t.Parallel()

	oid := NewOidFromContent([]byte("blob 11\x00hello world"))
	assert.Equal(t, "95d09f2b10159347eece71399a7e2e907ea3df4f", oid.String())
}

func TestNewOidFromStr(t *testing.T) {
	t.Parallel()

	t.Run("valid", func(t *testing.T) {
		t.Parallel()

		oid, err := NewOidFromStr("8b137891791fe96927ad78e64b0aad7bded08bdc")
		require.NoError(t, err)
		assert.Equal(t, "8b137891791fe96927ad78e64b0aad7bded08bdc", oid.String())
	})

	t.Run("too short", func(t *testing.T) {
		t.Parallel()

		_, err := NewOidFromStr("8b13")
		assert.ErrorIs(t, err, ErrInvalidOid)
	})

	t.Run("not hex", func(t *testing.T) {
		t.Parallel()

		_, err := NewOidFromStr("zzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzz")
		assert.ErrorIs(t, err, ErrInvalidOid)
	})
}

func TestNewOidFromBytes(t *testing.T) {
	t.Parallel()

	raw := make([]byte, OidSize)
	raw[0] = 0xff
	oid, err := NewOidFromBytes(raw)
	require.NoError(t, err)
	assert.Equal(t, byte(0xff), oid.Bytes()[0])

	_, err = NewOidFromBytes(raw[:10])
	assert.ErrorIs(t, err, ErrInvalidOid)
}

func TestOidIsZero(t *testing.T) {
	t.Parallel()

	assert.True(t, NullOid.IsZero())
	oid, err := NewOidFromStr("8b137891791fe96927ad78e64b0aad7bded08bdc")
	require.NoError(t, err)
	assert.False(t, oid.IsZero())
}
