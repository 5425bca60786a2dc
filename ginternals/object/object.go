// Package object contains the types and codec used to work with git
// objects: blobs, trees, commits, and tags.
package object

import (
	"bytes"
	"compress/zlib"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/colinmarc/gitgo/ginternals"
	"golang.org/x/xerrors"
)

var (
	// ErrObjectUnknown is returned when encountering an unrecognized
	// object type.
	ErrObjectUnknown = errors.New("invalid object type")

	// ErrObjectInvalid is returned when an object contains unexpected
	// data, or when the wrong object kind is handed to a method.
	ErrObjectInvalid = errors.New("invalid object")

	// ErrTreeInvalid is returned when parsing an invalid tree object.
	ErrTreeInvalid = errors.New("invalid tree")

	// ErrCommitInvalid is returned when parsing an invalid commit
	// object.
	ErrCommitInvalid = errors.New("invalid commit")

	// ErrTagInvalid is returned when parsing an invalid tag object.
	ErrTagInvalid = errors.New("invalid tag")
)

// Type represents the type of an object, as stored in both loose
// objects and packfiles.
type Type int8

// List of all the possible object types.
const (
	TypeCommit Type = 1
	TypeTree   Type = 2
	TypeBlob   Type = 3
	TypeTag    Type = 4
	// 5 is reserved for future use.
	TypeDeltaOFS Type = 6
	TypeDeltaRef Type = 7
)

func (t Type) String() string {
	switch t {
	case TypeCommit:
		return "commit"
	case TypeTree:
		return "tree"
	case TypeBlob:
		return "blob"
	case TypeTag:
		return "tag"
	case TypeDeltaOFS:
		return "ofs-delta"
	case TypeDeltaRef:
		return "ref-delta"
	default:
		panic(fmt.Sprintf("unknown object type %d", t))
	}
}

// IsValid returns whether t is a recognized object type.
func (t Type) IsValid() bool {
	switch t {
	case TypeCommit, TypeTree, TypeBlob, TypeTag, TypeDeltaOFS, TypeDeltaRef:
		return true
	default:
		return false
	}
}

// NewTypeFromString returns a Type from its textual representation, as
// used in the loose object header and in `cat-file -t` output.
func NewTypeFromString(t string) (Type, error) {
	switch t {
	case "commit":
		return TypeCommit, nil
	case "tree":
		return TypeTree, nil
	case "blob":
		return TypeBlob, nil
	case "tag":
		return TypeTag, nil
	default:
		return 0, ErrObjectUnknown
	}
}

// Object represents a git object. Every object kind shares the same
// framing and storage mechanism: "<type> <len>\0<content>", hashed and
// zlib-compressed for storage.
// https://git-scm.com/book/en/v2/Git-Internals-Git-Objects
type Object struct {
	id      ginternals.Oid
	typ     Type
	content []byte

	idProcessing sync.Once
}

// New creates a new git object of the given type.
func New(typ Type, content []byte) *Object {
	o := &Object{
		typ:     typ,
		content: content,
	}
	o.id, _ = o.build()
	return o
}

// ID returns the object's id, computing it on first access.
func (o *Object) ID() ginternals.Oid {
	o.idProcessing.Do(func() {
		o.id, _ = o.build()
	})
	return o.id
}

// Size returns the size, in bytes, of the object's content.
func (o *Object) Size() int {
	return len(o.content)
}

// Type returns the object's type.
func (o *Object) Type() Type {
	return o.typ
}

// Bytes returns the object's content, without the type/size header.
func (o *Object) Bytes() []byte {
	return o.content
}

func (o *Object) build() (oid ginternals.Oid, data []byte) {
	// bytes.Buffer's Write* methods never fail.
	w := new(bytes.Buffer)
	w.WriteString(o.Type().String())
	w.WriteRune(' ')
	w.WriteString(strconv.Itoa(o.Size()))
	w.WriteByte(0)
	w.Write(o.Bytes())

	data = w.Bytes()
	oid = ginternals.NewOidFromContent(data)
	return oid, data
}

// Compress returns the framed, zlib-compressed object: the format
// loose objects are stored in on disk.
func (o *Object) Compress() (data []byte, err error) {
	_, framed := o.build()

	compressed := new(bytes.Buffer)
	zw := zlib.NewWriter(compressed)

	if _, err = zw.Write(framed); err != nil {
		zw.Close() //nolint:errcheck // the write error is the one reported
		return nil, xerrors.Errorf("could not zlib the object: %w", err)
	}
	// Close flushes the pending compressed data and the checksum, so it
	// has to run before the buffer is read.
	if err = zw.Close(); err != nil {
		return nil, xerrors.Errorf("could not zlib the object: %w", err)
	}
	return compressed.Bytes(), nil
}

// AsBlob returns the object as a Blob.
func (o *Object) AsBlob() *Blob {
	return NewBlob(o)
}

// AsTree parses the object as a Tree.
func (o *Object) AsTree() (*Tree, error) {
	return NewTreeFromObject(o)
}

// AsCommit parses the object as a Commit.
func (o *Object) AsCommit() (*Commit, error) {
	return NewCommitFromObject(o)
}

// AsTag parses the object as a Tag.
func (o *Object) AsTag() (*Tag, error) {
	return NewTagFromObject(o)
}
