package ginternals

import "crypto/sha1" //nolint:gosec // git object ids are defined as sha1

// Sum returns the Oid of the given bytes, i.e. its SHA-1 digest.
func Sum(data []byte) Oid {
	return Oid(sha1.Sum(data)) //nolint:gosec
}
