package object

import (
	"bytes"

	"github.com/colinmarc/gitgo/ginternals"
	"github.com/colinmarc/gitgo/internal/readutil"
	"golang.org/x/xerrors"
)

// Tag represents an annotated tag object.
type Tag struct {
	rawObject *Object

	target ginternals.Oid
	typ    Type
	tag    string
	tagger Signature
	gpgSig string

	message string
}

// NewTagFromObject parses a Tag out of a raw Object.
//
// A tag is a sequence of header lines followed by a blank line and a
// free-form message:
//
//	object {oid}
//	type {target_object_type}
//	tag {tag_name}
//	tagger {sig}
//	gpgsig {signature}      (optional, may span several lines)
//
//	{message}
func NewTagFromObject(o *Object) (*Tag, error) {
	if o.typ != TypeTag {
		return nil, xerrors.Errorf("type %s is not a tag: %w", o.typ, ErrObjectInvalid)
	}
	tag := &Tag{rawObject: o}

	offset := 0
	objData := o.Bytes()
	var err error
	for {
		line := readutil.ReadTo(objData[offset:], '\n')
		offset += len(line) + 1 // +1 for the \n

		if len(line) == 0 && offset == 1 {
			return nil, xerrors.Errorf("could not find tag first line: %w", ErrTagInvalid)
		}

		if len(line) == 0 {
			if offset < len(objData) {
				tag.message = string(objData[offset:])
			}
			break
		}

		kv := bytes.SplitN(line, []byte{' '}, 2)
		switch string(kv[0]) {
		case "object":
			tag.target, err = ginternals.NewOidFromChars(kv[1])
			if err != nil {
				return nil, xerrors.Errorf("could not parse target id %#v: %w", kv[1], err)
			}
		case "type":
			tag.typ, err = NewTypeFromString(string(kv[1]))
			if err != nil {
				return nil, xerrors.Errorf("invalid object type %s: %w", kv[1], err)
			}
		case "tagger":
			tag.tagger, err = NewSignatureFromBytes(kv[1])
			if err != nil {
				return nil, xerrors.Errorf("could not parse tagger %q: %w", kv[1], err)
			}
		case "tag":
			tag.tag = string(kv[1])
		case "gpgsig":
			begin := string(kv[1]) + "\n"
			end := "-----END PGP SIGNATURE-----"
			i := bytes.Index(objData[offset:], []byte(end))
			if i < 0 {
				return nil, xerrors.Errorf("unterminated gpgsig: %w", ErrTagInvalid)
			}
			tag.gpgSig = begin + string(objData[offset:offset+i]) + end
			offset += len(end) + i + 1 // +1 for the \n
		}
	}

	if tag.tagger.IsZero() {
		return nil, xerrors.Errorf("tag has no tagger: %w", ErrTagInvalid)
	}
	if tag.target.IsZero() {
		return nil, xerrors.Errorf("tag has no target: %w", ErrTagInvalid)
	}
	if !tag.typ.IsValid() {
		return nil, xerrors.Errorf("tag has no valid target type: %w", ErrTagInvalid)
	}

	return tag, nil
}

// ID returns the tag's id.
func (t *Tag) ID() ginternals.Oid {
	return t.rawObject.ID()
}

// Target returns the id of the object the tag points to.
func (t *Tag) Target() ginternals.Oid {
	return t.target
}

// Type returns the type of the tagged object.
func (t *Tag) Type() Type {
	return t.typ
}

// Name returns the tag's name.
func (t *Tag) Name() string {
	return t.tag
}

// Tagger returns the Signature of the person who created the tag.
func (t *Tag) Tagger() Signature {
	return t.tagger
}

// Message returns the tag's message.
func (t *Tag) Message() string {
	return t.message
}

// GPGSig returns the tag's GPG signature, if any.
func (t *Tag) GPGSig() string {
	return t.gpgSig
}

// ToObject returns the underlying Object, encoding it on first access.
func (t *Tag) ToObject() *Object {
	if t.rawObject != nil {
		return t.rawObject
	}

	buf := new(bytes.Buffer)
	buf.WriteString("object ")
	buf.WriteString(t.target.String())
	buf.WriteByte('\n')

	buf.WriteString("type ")
	buf.WriteString(t.typ.String())
	buf.WriteByte('\n')

	buf.WriteString("tag ")
	buf.WriteString(t.tag)
	buf.WriteByte('\n')

	buf.WriteString("tagger ")
	buf.WriteString(t.tagger.String())
	buf.WriteByte('\n')

	if t.gpgSig != "" {
		buf.WriteString("gpgsig ")
		buf.WriteString(t.gpgSig)
		buf.WriteByte('\n')
	}

	buf.WriteByte('\n')
	buf.WriteString(t.message)
	t.rawObject = New(TypeTag, buf.Bytes())
	return t.rawObject
}
