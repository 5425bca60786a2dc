package object

import (
	"bytes"

	"github.com/colinmarc/gitgo/ginternals"
	"github.com/colinmarc/gitgo/internal/readutil"
	"golang.org/x/xerrors"
)

// CommitOptions holds the optional data used to create a commit.
type CommitOptions struct {
	Message string
	GPGSig  string
	// Committer is the person recording the commit. If zero, Author is
	// used as the committer too.
	Committer Signature
	ParentIDs []ginternals.Oid
}

// Commit represents a commit object.
type Commit struct {
	rawObject *Object

	author    Signature
	committer Signature

	gpgSig  string
	message string

	parentIDs []ginternals.Oid
	treeID    ginternals.Oid
}

// NewCommit creates a new Commit object. Oids passed in are not
// verified to exist in any object store.
func NewCommit(treeID ginternals.Oid, author Signature, opts *CommitOptions) *Commit {
	c := &Commit{
		treeID:    treeID,
		author:    author,
		committer: opts.Committer,
		message:   opts.Message,
		parentIDs: opts.ParentIDs,
		gpgSig:    opts.GPGSig,
	}
	if c.committer.IsZero() {
		c.committer = author
	}
	c.rawObject = c.encode()
	return c
}

// NewCommitFromObject parses a Commit out of a raw Object.
//
// A commit is a sequence of header lines followed by a blank line and
// a free-form message:
//
//	tree {oid}
//	parent {oid}            (0, 1, or many times)
//	author {sig}
//	committer {sig}
//	gpgsig {signature}      (optional, may span several lines)
//
//	{message}
func NewCommitFromObject(o *Object) (*Commit, error) {
	if o.typ != TypeCommit {
		return nil, xerrors.Errorf("type %s is not a commit: %w", o.typ, ErrObjectInvalid)
	}
	ci := &Commit{rawObject: o}

	offset := 0
	objData := o.Bytes()
	for {
		line := readutil.ReadTo(objData[offset:], '\n')
		offset += len(line) + 1 // +1 for the \n

		if len(line) == 0 && offset == 1 {
			return nil, xerrors.Errorf("could not find commit first line: %w", ErrCommitInvalid)
		}

		if len(line) == 0 {
			if offset < len(objData) {
				ci.message = string(objData[offset:])
			}
			break
		}

		kv := bytes.SplitN(line, []byte{' '}, 2)
		var err error
		switch string(kv[0]) {
		case "tree":
			ci.treeID, err = ginternals.NewOidFromChars(kv[1])
			if err != nil {
				return nil, xerrors.Errorf("could not parse tree id %#v: %w", kv[1], err)
			}
		case "parent":
			oid, err := ginternals.NewOidFromChars(kv[1])
			if err != nil {
				return nil, xerrors.Errorf("could not parse parent id %#v: %w", kv[1], err)
			}
			ci.parentIDs = append(ci.parentIDs, oid)
		case "author":
			ci.author, err = NewSignatureFromBytes(kv[1])
			if err != nil {
				return nil, xerrors.Errorf("could not parse author signature %q: %w", kv[1], err)
			}
		case "committer":
			ci.committer, err = NewSignatureFromBytes(kv[1])
			if err != nil {
				return nil, xerrors.Errorf("could not parse committer signature %q: %w", kv[1], err)
			}
		case "gpgsig":
			begin := string(kv[1]) + "\n"
			end := "-----END PGP SIGNATURE-----"
			i := bytes.Index(objData[offset:], []byte(end))
			if i < 0 {
				return nil, xerrors.Errorf("unterminated gpgsig: %w", ErrCommitInvalid)
			}
			ci.gpgSig = begin + string(objData[offset:offset+i]) + end
			offset += len(end) + i + 1 // +1 for the \n
		}
	}

	if ci.author.IsZero() {
		return nil, xerrors.Errorf("commit has no author: %w", ErrCommitInvalid)
	}
	if ci.treeID.IsZero() {
		return nil, xerrors.Errorf("commit has no tree: %w", ErrCommitInvalid)
	}

	return ci, nil
}

// ID returns the commit's id.
func (c *Commit) ID() ginternals.Oid {
	return c.rawObject.ID()
}

// Author returns the Signature of the person who made the changes.
func (c *Commit) Author() Signature {
	return c.author
}

// Committer returns the Signature of the person who recorded the
// commit.
func (c *Commit) Committer() Signature {
	return c.committer
}

// Message returns the commit's message.
func (c *Commit) Message() string {
	return c.message
}

// ParentIDs returns the commit's parent ids, if any.
func (c *Commit) ParentIDs() []ginternals.Oid {
	out := make([]ginternals.Oid, len(c.parentIDs))
	copy(out, c.parentIDs)
	return out
}

// TreeID returns the id of the commit's root tree.
func (c *Commit) TreeID() ginternals.Oid {
	return c.treeID
}

// GPGSig returns the commit's GPG signature, if any.
func (c *Commit) GPGSig() string {
	return c.gpgSig
}

// ToObject returns the underlying Object, encoding it on first access.
func (c *Commit) ToObject() *Object {
	if c.rawObject == nil {
		c.rawObject = c.encode()
	}
	return c.rawObject
}

func (c *Commit) encode() *Object {
	buf := new(bytes.Buffer)
	buf.WriteString("tree ")
	buf.WriteString(c.treeID.String())
	buf.WriteByte('\n')

	for _, p := range c.parentIDs {
		buf.WriteString("parent ")
		buf.WriteString(p.String())
		buf.WriteByte('\n')
	}

	buf.WriteString("author ")
	buf.WriteString(c.author.String())
	buf.WriteByte('\n')

	buf.WriteString("committer ")
	buf.WriteString(c.committer.String())
	buf.WriteByte('\n')

	if c.gpgSig != "" {
		buf.WriteString("gpgsig ")
		buf.WriteString(c.gpgSig)
		buf.WriteByte('\n')
	}

	buf.WriteByte('\n')
	buf.WriteString(c.message)
	return New(TypeCommit, buf.Bytes())
}
