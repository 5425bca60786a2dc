package fsbackend

import (
	"compress/zlib"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/colinmarc/gitgo/ginternals"
	"github.com/colinmarc/gitgo/ginternals/object"
	"github.com/colinmarc/gitgo/ginternals/packfile"
	"github.com/colinmarc/gitgo/internal/errutil"
	"github.com/colinmarc/gitgo/internal/readutil"
	"github.com/spf13/afero"
	"golang.org/x/xerrors"
)

// Object returns the object that has the given oid.
// This method can be called concurrently.
func (b *Backend) Object(oid ginternals.Oid) (*object.Object, error) {
	key := oid[:]
	b.objectMu.Lock(key)
	defer b.objectMu.Unlock(key)

	return b.objectUnsafe(oid)
}

func (b *Backend) objectUnsafe(oid ginternals.Oid) (*object.Object, error) {
	if cached, found := b.cache.Get(oid); found {
		if o, valid := cached.(*object.Object); valid {
			return o, nil
		}
	}

	o, err := b.looseObject(oid)
	if err == nil {
		b.cache.Add(oid, o)
		return o, nil
	}
	if xerrors.Is(err, os.ErrNotExist) {
		return nil, xerrors.Errorf("%s: %w", oid.String(), ginternals.ErrObjectNotFound)
	}
	return nil, xerrors.Errorf("failed looking for loose object: %w", err)
}

// looseObjectPath returns the absolute path of an object:
// .git/objects/<first 2 chars of sha>/<remaining chars of sha>.
func (b *Backend) looseObjectPath(sha string) string {
	return filepath.Join(b.objectDir, sha[:2], sha[2:])
}

// looseObject reads and decodes the loose object matching the given
// oid. The on-disk format is "<type> <len>\0<content>", zlib
// compressed.
func (b *Backend) looseObject(oid ginternals.Oid) (o *object.Object, err error) {
	strOid := oid.String()
	p := b.looseObjectPath(strOid)
	f, err := b.fs.Open(p)
	if err != nil {
		return nil, err
	}
	defer errutil.Close(f, &err)

	zr, err := zlib.NewReader(f)
	if err != nil {
		return nil, xerrors.Errorf("could not decompress object %s at path %s: %w", strOid, p, err)
	}
	defer errutil.Close(zr, &err)

	buf, err := io.ReadAll(zr)
	if err != nil {
		return nil, xerrors.Errorf("could not read object %s at path %s: %w", strOid, p, err)
	}

	pos := 0
	typ := readutil.ReadTo(buf, ' ')
	if typ == nil {
		return nil, xerrors.Errorf("could not find type for object %s at path %s", strOid, p)
	}
	oType, err := object.NewTypeFromString(string(typ))
	if err != nil {
		return nil, xerrors.Errorf("unsupported type %q for object %s at path %s", typ, strOid, p)
	}
	pos += len(typ) + 1

	size := readutil.ReadTo(buf[pos:], 0)
	if size == nil {
		return nil, xerrors.Errorf("could not find size for object %s at path %s", strOid, p)
	}
	oSize, err := strconv.Atoi(string(size))
	if err != nil {
		return nil, xerrors.Errorf("invalid size %q for object %s at path %s: %w", size, strOid, p, err)
	}
	pos += len(size) + 1

	content := buf[pos:]
	if len(content) != oSize {
		return nil, xerrors.Errorf("object %s marked as size %d, but has %d at path %s", strOid, oSize, len(content), p)
	}

	return object.New(oType, content), nil
}

// HasObject returns whether an object exists in the odb.
// This method can be called concurrently.
func (b *Backend) HasObject(oid ginternals.Oid) (bool, error) {
	key := oid[:]
	b.objectMu.Lock(key)
	defer b.objectMu.Unlock(key)

	return b.hasObjectUnsafe(oid)
}

func (b *Backend) hasObjectUnsafe(oid ginternals.Oid) (bool, error) {
	_, err := b.objectUnsafe(oid)
	if err == nil {
		return true, nil
	}
	if xerrors.Is(err, ginternals.ErrObjectNotFound) {
		return false, nil
	}
	return false, xerrors.Errorf("could not get object: %w", err)
}

// WriteObject adds an object to the odb, a no-op if it's already
// present. This method can be called concurrently.
func (b *Backend) WriteObject(o *object.Object) (ginternals.Oid, error) {
	oid := o.ID()
	b.objectMu.Lock(oid[:])
	defer b.objectMu.Unlock(oid[:])

	found, err := b.hasObjectUnsafe(oid)
	if err != nil {
		return ginternals.NullOid, xerrors.Errorf("could not check if object %s already exists: %w", oid.String(), err)
	}
	if found {
		return oid, nil
	}

	data, err := o.Compress()
	if err != nil {
		return ginternals.NullOid, xerrors.Errorf("could not compress object: %w", err)
	}

	p := b.looseObjectPath(oid.String())
	if err := b.fs.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return ginternals.NullOid, xerrors.Errorf("could not create the destination directory for %s: %w", p, err)
	}
	// Git objects are read-only once written.
	if err := afero.WriteFile(b.fs, p, data, 0o444); err != nil {
		return ginternals.NullOid, xerrors.Errorf("could not persist object %s at path %s: %w", oid.String(), p, err)
	}

	b.cache.Add(oid, o)
	return oid, nil
}

// WritePack resolves every object contained in a received packfile and
// persists it to the loose store. Unlike the teacher, this backend
// never keeps the pack itself around as a separate lookup path: since
// writing or indexing .pack/.idx files is out of scope, every object a
// clone receives is materialized as a loose object immediately on
// import.
func (b *Backend) WritePack(data []byte) error {
	pack, err := packfile.Parse(data)
	if err != nil {
		return xerrors.Errorf("could not parse packfile: %w", err)
	}
	for _, o := range pack.Objects() {
		if _, err := b.WriteObject(o); err != nil {
			return xerrors.Errorf("could not import object %s from pack: %w", o.ID().String(), err)
		}
	}
	return nil
}
