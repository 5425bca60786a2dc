// Package ginternals contains the low-level primitives shared by the
// rest of the module: object ids, hashing, references, and the
// sentinel errors that go with them.
package ginternals

import (
	"encoding/hex"

	"golang.org/x/xerrors"
)

// OidSize is the length, in bytes, of a raw (binary) object id.
const OidSize = 20

// NullOid is the zero-value Oid, used as a sentinel "no object" value.
var NullOid = Oid{}

// ErrInvalidOid is returned when a value cannot be turned into an Oid.
var ErrInvalidOid = xerrors.New("invalid oid")

// Oid represents the SHA-1 identity of a git object: 20 raw bytes,
// rendered as 40 lowercase hex digits.
type Oid [OidSize]byte

// Bytes returns the raw (binary) representation of the oid.
func (o Oid) Bytes() []byte {
	return o[:]
}

// String returns the 40 lowercase hex character representation of the
// oid.
func (o Oid) String() string {
	return hex.EncodeToString(o[:])
}

// IsZero returns whether the oid is the zero value (NullOid).
func (o Oid) IsZero() bool {
	return o == NullOid
}

// NewOidFromContent returns the Oid of the given content, i.e. the
// SHA-1 sum of content.
func NewOidFromContent(content []byte) Oid {
	return Sum(content)
}

// NewOidFromBytes builds an Oid from a 20-byte raw (binary) slice.
func NewOidFromBytes(id []byte) (Oid, error) {
	if len(id) < OidSize {
		return NullOid, xerrors.Errorf("oid must be %d bytes long: %w", OidSize, ErrInvalidOid)
	}
	var oid Oid
	copy(oid[:], id[:OidSize])
	return oid, nil
}

// NewOidFromChars builds an Oid from its 40 hex-char ASCII
// representation, ex. the bytes {'9', 'b', '9', '1', ...}.
func NewOidFromChars(id []byte) (Oid, error) {
	return NewOidFromStr(string(id))
}

// NewOidFromStr builds an Oid from its 40 lowercase hex char string
// representation.
func NewOidFromStr(id string) (Oid, error) {
	raw, err := hex.DecodeString(id)
	if err != nil {
		return NullOid, xerrors.Errorf("%s: %w", err.Error(), ErrInvalidOid)
	}
	if len(raw) != OidSize {
		return NullOid, xerrors.Errorf("expected %d decoded bytes, got %d: %w", OidSize, len(raw), ErrInvalidOid)
	}
	var oid Oid
	copy(oid[:], raw)
	return oid, nil
}
