package object

import (
	"strconv"
	"strings"
	"time"

	"github.com/colinmarc/gitgo/internal/readutil"
	"github.com/pkg/errors"
)

// ErrSignatureInvalid is returned when a commit or tag signature
// cannot be parsed.
var ErrSignatureInvalid = errors.New("signature is invalid")

// Signature represents the author or committer of a commit, or the
// tagger of a tag.
type Signature struct {
	Time  time.Time
	Name  string
	Email string
}

// String returns the on-disk representation of the signature:
// "Name <email> epoch tz".
func (s Signature) String() string {
	return s.Name + " <" + s.Email + "> " + strconv.FormatInt(s.Time.Unix(), 10) + " " + s.Time.Format("-0700")
}

// IsZero returns whether the signature holds its zero value.
func (s Signature) IsZero() bool {
	return s.Time.IsZero() && s.Name == "" && s.Email == ""
}

// NewSignature builds a signature for name/email, stamped at the
// given time.
func NewSignature(name, email string, at time.Time) Signature {
	return Signature{Name: name, Email: email, Time: at}
}

// NewSignatureFromBytes parses a signature out of its on-disk
// representation: "Name <email> epoch tz". Parse errors are wrapped
// with github.com/pkg/errors: a missing name, email or timestamp wraps
// ErrSignatureInvalid with a message naming the missing part, while a
// malformed timestamp or timezone wraps the underlying parse error.
func NewSignatureFromBytes(b []byte) (Signature, error) {
	sig := Signature{}

	data := readutil.ReadTo(b, '<')
	if len(data) == 0 {
		return sig, errors.Wrap(ErrSignatureInvalid, "could not retrieve the name")
	}
	sig.Name = strings.TrimSpace(string(data))
	offset := len(data) + 1 // skip "<"
	if offset >= len(b) {
		return sig, errors.Wrap(ErrSignatureInvalid, "signature stopped after the name")
	}

	data = readutil.ReadTo(b[offset:], '>')
	if len(data) == 0 {
		return sig, errors.Wrap(ErrSignatureInvalid, "could not retrieve the email")
	}
	sig.Email = string(data)
	offset += len(data) + 2 // skip "> "
	if offset >= len(b) {
		return sig, errors.Wrap(ErrSignatureInvalid, "signature stopped after the email")
	}

	timestamp := readutil.ReadTo(b[offset:], ' ')
	if len(timestamp) == 0 {
		return sig, errors.Wrap(ErrSignatureInvalid, "could not retrieve the timestamp")
	}
	offset += len(timestamp) + 1 // skip " "
	if offset >= len(b) {
		return sig, errors.Wrap(ErrSignatureInvalid, "signature stopped after the timestamp")
	}

	epoch, err := strconv.ParseInt(string(timestamp), 10, 64)
	if err != nil {
		return sig, errors.Wrapf(err, "invalid timestamp %s", timestamp)
	}
	sig.Time = time.Unix(epoch, 0)

	tz, err := time.Parse("-0700", string(b[offset:]))
	if err != nil {
		return sig, errors.Wrapf(err, "invalid timezone format %s", b[offset:])
	}
	sig.Time = sig.Time.In(tz.Location())
	return sig, nil
}
