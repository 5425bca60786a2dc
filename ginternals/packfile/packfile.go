// Package packfile parses git packfiles: the concatenation of zlib
// compressed, optionally deltified objects git uses to transfer and
// store history efficiently.
// https://github.com/git/git/blob/master/Documentation/technical/pack-format.txt
package packfile

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"errors"
	"io"

	"github.com/colinmarc/gitgo/ginternals"
	"github.com/colinmarc/gitgo/ginternals/object"
	"golang.org/x/xerrors"
)

const headerSize = 12

var magic = [4]byte{'P', 'A', 'C', 'K'}

var (
	// ErrInvalidMagic is returned when a file doesn't start with the
	// expected "PACK" magic.
	ErrInvalidMagic = errors.New("invalid pack magic")
	// ErrInvalidVersion is returned when a pack declares an unsupported
	// version. Only version 2 is supported.
	ErrInvalidVersion = errors.New("invalid pack version")
	// ErrIntOverflow is returned when a variable-length integer doesn't
	// terminate within the bytes available.
	ErrIntOverflow = errors.New("int64 overflow")
	// ErrObjectNotFound is returned by GetObject when no object in the
	// pack has the requested id.
	ErrObjectNotFound = errors.New("object not found in pack")
	// ErrBaseNotFound is returned when a REF_DELTA or OFS_DELTA points
	// to a base object that isn't present earlier in the pack. Resolving
	// bases from outside the pack (thin packs) is not supported.
	ErrBaseNotFound = errors.New("delta base not found in pack")
)

// BaseRefKind distinguishes how a deltified entry addresses its base
// object.
type BaseRefKind int8

const (
	// baseRefNone is used by non-delta entries.
	baseRefNone BaseRefKind = iota
	// BaseRefOffset addresses the base by a negative offset from the
	// delta entry's own position in the pack (OFS_DELTA).
	BaseRefOffset
	// BaseRefOid addresses the base by its object id (REF_DELTA).
	BaseRefOid
)

// BaseRef is a tagged union identifying a deltified entry's base
// object, unifying OFS_DELTA and REF_DELTA addressing.
type BaseRef struct {
	Kind   BaseRefKind
	Offset uint64
	Oid    ginternals.Oid
}

// entry is a single raw record read off the pack stream during the
// scan pass.
type entry struct {
	offset  uint64
	typ     object.Type
	size    int
	payload []byte // decompressed object content, or delta instruction stream
	base    BaseRef
}

// Pack is a fully parsed packfile: every object has been located and
// every delta resolved against its base. There is no on-disk index
// (.idx) counterpart; the offset/id index this type builds is kept in
// memory only, for the lifetime of the Pack.
type Pack struct {
	objectCount uint32
	checksum    ginternals.Oid

	entries     []entry
	offsetIndex map[uint64]int
	oidIndex    map[ginternals.Oid]int
	resolved    []*object.Object
}

// Parse reads and fully resolves a packfile from data, which must
// contain the entire pack stream including its 12-byte header and
// 20-byte trailing checksum.
func Parse(data []byte) (*Pack, error) {
	if len(data) < headerSize+ginternals.OidSize {
		return nil, xerrors.Errorf("pack too short: %w", ErrInvalidMagic)
	}
	if !bytes.Equal(data[0:4], magic[:]) {
		return nil, xerrors.Errorf("header is %q: %w", data[0:4], ErrInvalidMagic)
	}
	version := binary.BigEndian.Uint32(data[4:8])
	if version != 2 {
		return nil, xerrors.Errorf("version %d is not supported: %w", version, ErrInvalidVersion)
	}

	p := &Pack{
		objectCount: binary.BigEndian.Uint32(data[8:12]),
		offsetIndex: map[uint64]int{},
		oidIndex:    map[ginternals.Oid]int{},
	}

	checksum, err := ginternals.NewOidFromBytes(data[len(data)-ginternals.OidSize:])
	if err != nil {
		return nil, xerrors.Errorf("could not read pack checksum: %w", err)
	}
	p.checksum = checksum

	if err := p.scan(data); err != nil {
		return nil, err
	}
	if err := p.resolveAll(); err != nil {
		return nil, err
	}
	return p, nil
}

// scan is the first pass: it walks the pack stream once, recording
// every object's offset, type, and decompressed content (or, for
// deltas, its instruction stream and base reference) without resolving
// any delta chains yet.
func (p *Pack) scan(data []byte) error {
	offset := uint64(headerSize)
	body := data[:len(data)-ginternals.OidSize]

	p.entries = make([]entry, 0, p.objectCount)
	for i := uint32(0); i < p.objectCount; i++ {
		e, consumed, err := readEntry(body, offset)
		if err != nil {
			return xerrors.Errorf("could not read object %d at offset %d: %w", i, offset, err)
		}
		p.entries = append(p.entries, e)
		p.offsetIndex[e.offset] = len(p.entries) - 1
		offset += consumed
	}
	return nil
}

// readEntry parses a single object header (and, for deltas, its base
// reference) starting at offset, then decompresses its payload.
func readEntry(data []byte, offset uint64) (e entry, consumed uint64, err error) {
	e.offset = offset
	cur := offset

	// The first header byte packs: MSB | 3-bit type | 4 bits of size.
	first := data[cur]
	typ := object.Type((first & 0b_0111_0000) >> 4)
	if !typ.IsValid() {
		return entry{}, 0, xerrors.Errorf("unknown object type %d", typ)
	}
	e.typ = typ
	size := uint64(first & 0b_0000_1111)
	cur++

	if isMSBSet(first) {
		rest, n, err := readSize(data[cur:])
		if err != nil {
			return entry{}, 0, xerrors.Errorf("could not read object size: %w", err)
		}
		cur += uint64(n)
		size |= rest << 4
	}
	e.size = int(size)

	switch typ {
	case object.TypeDeltaRef:
		oid, err := ginternals.NewOidFromBytes(data[cur : cur+ginternals.OidSize])
		if err != nil {
			return entry{}, 0, xerrors.Errorf("could not read ref-delta base id: %w", err)
		}
		e.base = BaseRef{Kind: BaseRefOid, Oid: oid}
		cur += ginternals.OidSize
	case object.TypeDeltaOFS:
		relOffset, n, err := readDeltaOffset(data[cur:])
		if err != nil {
			return entry{}, 0, xerrors.Errorf("could not read ofs-delta base offset: %w", err)
		}
		if relOffset > offset {
			return entry{}, 0, xerrors.Errorf("ofs-delta base offset underflows the pack: %w", ErrBaseNotFound)
		}
		e.base = BaseRef{Kind: BaseRefOffset, Offset: offset - relOffset}
		cur += uint64(n)
	}

	payload, zlibConsumed, err := inflate(data[cur:], e.size)
	if err != nil {
		return entry{}, 0, xerrors.Errorf("could not decompress object: %w", err)
	}
	e.payload = payload
	cur += zlibConsumed

	return e, cur - offset, nil
}

// inflate decompresses a zlib stream embedded in data, returning the
// decompressed bytes (expected to be exactly wantSize long) and the
// number of compressed bytes consumed.
func inflate(data []byte, wantSize int) (out []byte, consumed uint64, err error) {
	br := bytes.NewReader(data)
	zr, err := zlib.NewReader(br)
	if err != nil {
		return nil, 0, xerrors.Errorf("could not open zlib reader: %w", err)
	}
	defer zr.Close() //nolint:errcheck // read-only, nothing to flush

	buf := new(bytes.Buffer)
	buf.Grow(wantSize)
	if _, err := io.Copy(buf, zr); err != nil {
		return nil, 0, xerrors.Errorf("could not inflate: %w", err)
	}
	if buf.Len() != wantSize {
		return nil, 0, xerrors.Errorf("decompressed size mismatch: expected %d, got %d", wantSize, buf.Len())
	}
	return buf.Bytes(), uint64(len(data) - br.Len()), nil
}

// resolveAll is the second pass: it walks entries in stream order,
// resolving every delta against a base that is guaranteed to appear
// earlier in the pack (OFS_DELTA offsets always point backward;
// REF_DELTA is assumed to reference an object already seen, since
// completing a delta from outside the pack is out of scope).
func (p *Pack) resolveAll() error {
	p.resolved = make([]*object.Object, len(p.entries))

	for i, e := range p.entries {
		switch e.typ {
		case object.TypeCommit, object.TypeTree, object.TypeBlob, object.TypeTag:
			o := object.New(e.typ, e.payload)
			p.resolved[i] = o
			p.oidIndex[o.ID()] = i

		case object.TypeDeltaOFS, object.TypeDeltaRef:
			baseIdx, ok := p.baseIndex(e.base)
			if !ok {
				return xerrors.Errorf("entry %d: %w", i, ErrBaseNotFound)
			}
			base := p.resolved[baseIdx]
			content, err := applyDelta(base.Bytes(), e.payload)
			if err != nil {
				return xerrors.Errorf("entry %d: could not apply delta: %w", i, err)
			}
			o := object.New(base.Type(), content)
			p.resolved[i] = o
			p.oidIndex[o.ID()] = i

		default:
			return xerrors.Errorf("entry %d: unexpected type %s", i, e.typ)
		}
	}
	return nil
}

func (p *Pack) baseIndex(ref BaseRef) (int, bool) {
	switch ref.Kind {
	case BaseRefOffset:
		idx, ok := p.offsetIndex[ref.Offset]
		return idx, ok
	case BaseRefOid:
		idx, ok := p.oidIndex[ref.Oid]
		return idx, ok
	default:
		return 0, false
	}
}

// GetObject returns the fully-resolved object with the given id.
func (p *Pack) GetObject(oid ginternals.Oid) (*object.Object, error) {
	idx, ok := p.oidIndex[oid]
	if !ok {
		return nil, xerrors.Errorf("%s: %w", oid.String(), ErrObjectNotFound)
	}
	return p.resolved[idx], nil
}

// HasObject returns whether the pack contains an object with the
// given id.
func (p *Pack) HasObject(oid ginternals.Oid) bool {
	_, ok := p.oidIndex[oid]
	return ok
}

// Objects returns every resolved object in the pack, in the order
// they appeared in the stream.
func (p *Pack) Objects() []*object.Object {
	out := make([]*object.Object, len(p.resolved))
	copy(out, p.resolved)
	return out
}

// ObjectCount returns the number of objects declared in the pack
// header.
func (p *Pack) ObjectCount() uint32 {
	return p.objectCount
}

// Checksum returns the SHA-1 checksum trailing the pack. It is parsed
// but, per this module's scope, never verified against the body.
func (p *Pack) Checksum() ginternals.Oid {
	return p.checksum
}
