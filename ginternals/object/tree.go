package object

import (
	"bytes"
	"sort"
	"strconv"
	"strings"

	"github.com/colinmarc/gitgo/ginternals"
	"github.com/colinmarc/gitgo/internal/readutil"
	"golang.org/x/xerrors"
)

// TreeObjectMode represents the mode of an entry inside a tree.
// Non-standard modes (like 0o100664) are not supported.
type TreeObjectMode int32

const (
	// ModeFile is the mode of a regular, non-executable file.
	ModeFile TreeObjectMode = 0o100644
	// ModeExecutable is the mode of an executable file.
	ModeExecutable TreeObjectMode = 0o100755
	// ModeDirectory is the mode of a sub-tree. Git always writes this
	// mode as "40000" (no leading zero); "040000" is only ever seen on
	// read, produced by other implementations.
	ModeDirectory TreeObjectMode = 0o040000
	// ModeSymLink is the mode of a symbolic link.
	ModeSymLink TreeObjectMode = 0o120000
	// ModeGitLink is the mode of a submodule reference.
	ModeGitLink TreeObjectMode = 0o160000
)

// IsValid returns whether m is a supported mode.
func (m TreeObjectMode) IsValid() bool {
	switch m {
	case ModeFile, ModeExecutable, ModeDirectory, ModeSymLink, ModeGitLink:
		return true
	default:
		return false
	}
}

// ObjectType returns the object type referenced by entries using this
// mode.
func (m TreeObjectMode) ObjectType() Type {
	switch m {
	case ModeDirectory:
		return TypeTree
	case ModeGitLink:
		return TypeCommit
	default:
		return TypeBlob
	}
}

// Tree represents a git tree object: an ordered list of entries, each
// naming a blob, sub-tree, or gitlink.
type Tree struct {
	rawObject *Object
	// entries is kept private. NewTree sorts it canonically, so a Tree
	// built from arbitrary input re-encodes deterministically; a Tree
	// parsed by NewTreeFromObject keeps the entries in the order the
	// object stores them.
	entries []TreeEntry
}

// TreeEntry represents a single entry inside a tree.
type TreeEntry struct {
	Path string
	ID   ginternals.Oid
	Mode TreeObjectMode
}

// NewTree returns a new tree with the given entries, sorted into
// git's canonical order.
func NewTree(entries []TreeEntry) *Tree {
	sorted := make([]TreeEntry, len(entries))
	copy(sorted, entries)
	sortEntries(sorted)

	t := &Tree{entries: sorted}
	t.rawObject = t.encode()
	return t
}

// sortEntries sorts tree entries the way git compares them: as byte
// strings, except a directory entry is compared as if its name had a
// trailing "/" appended. This is what makes two implementations agree
// on a tree's id.
func sortEntries(entries []TreeEntry) {
	sort.Slice(entries, func(i, j int) bool {
		return sortKey(entries[i]) < sortKey(entries[j])
	})
}

func sortKey(e TreeEntry) string {
	if e.Mode == ModeDirectory {
		return e.Path + "/"
	}
	return e.Path
}

// NewTreeFromObject parses a Tree out of a raw Object.
//
// A tree is a back-to-back sequence of entries, each one encoded as:
//
//	{octal_mode} {path_name}\0{20-byte raw oid}
func NewTreeFromObject(o *Object) (*Tree, error) {
	if o.Type() != TypeTree {
		return nil, xerrors.Errorf("type %s is not a tree: %w", o.typ, ErrObjectInvalid)
	}

	var entries []TreeEntry

	objData := o.Bytes()
	offset := 0
	for i := 1; offset < len(objData); i++ {
		entry := TreeEntry{}
		data := readutil.ReadTo(objData[offset:], ' ')
		if len(data) == 0 {
			return nil, xerrors.Errorf("could not retrieve the mode of entry %d: %w", i, ErrTreeInvalid)
		}
		offset += len(data) + 1 // +1 for the space
		mode, err := strconv.ParseInt(string(data), 8, 32)
		if err != nil {
			return nil, xerrors.Errorf("could not parse mode of entry %d: %s: %w", i, err.Error(), ErrTreeInvalid)
		}
		entry.Mode = TreeObjectMode(mode)
		if !entry.Mode.IsValid() {
			return nil, xerrors.Errorf("unsupported mode %o for entry %d: %w", mode, i, ErrTreeInvalid)
		}

		data = readutil.ReadTo(objData[offset:], 0)
		if len(data) == 0 {
			return nil, xerrors.Errorf("could not retrieve the path of entry %d: %w", i, ErrTreeInvalid)
		}
		offset += len(data) + 1 // +1 for the \0
		entry.Path = string(data)
		if strings.Contains(entry.Path, "/") || strings.ContainsRune(entry.Path, 0) {
			return nil, xerrors.Errorf("entry %d has an invalid name %q: %w", i, entry.Path, ErrTreeInvalid)
		}

		if offset+ginternals.OidSize > len(objData) {
			return nil, xerrors.Errorf("not enough space to retrieve the id of entry %d: %w", i, ErrTreeInvalid)
		}
		entry.ID, err = ginternals.NewOidFromBytes(objData[offset : offset+ginternals.OidSize])
		if err != nil {
			return nil, xerrors.Errorf("invalid oid for entry %d: %s: %w", i, err.Error(), ErrTreeInvalid)
		}
		offset += ginternals.OidSize

		entries = append(entries, entry)
	}

	return &Tree{rawObject: o, entries: entries}, nil
}

// Entries returns a copy of the tree's entries, in the tree's order
// (canonical for trees built with NewTree).
func (t *Tree) Entries() []TreeEntry {
	out := make([]TreeEntry, len(t.entries))
	copy(out, t.entries)
	return out
}

// ID returns the tree's id.
func (t *Tree) ID() ginternals.Oid {
	return t.rawObject.ID()
}

// ToObject returns the underlying Object, encoding it on first access.
func (t *Tree) ToObject() *Object {
	if t.rawObject == nil {
		t.rawObject = t.encode()
	}
	return t.rawObject
}

func (t *Tree) encode() *Object {
	buf := new(bytes.Buffer)

	for _, e := range t.entries {
		buf.WriteString(strconv.FormatInt(int64(e.Mode), 8))
		buf.WriteByte(' ')
		buf.WriteString(e.Path)
		buf.WriteByte(0)
		buf.Write(e.ID.Bytes())
	}

	return New(TypeTree, buf.Bytes())
}
