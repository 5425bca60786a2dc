package fsbackend

import (
	"os"
	"path/filepath"

	"github.com/colinmarc/gitgo/ginternals"
	"github.com/spf13/afero"
	"golang.org/x/xerrors"
)

// Reference returns a stored reference from its name. ErrRefNotFound
// is returned if the reference doesn't exist. Unlike the teacher,
// there is no packed-refs fallback: since this backend never packs
// references, every ref is expected to be its own loose file.
func (b *Backend) Reference(name string) (*ginternals.Reference, error) {
	finder := func(name string) ([]byte, error) {
		data, err := afero.ReadFile(b.fs, b.systemPath(name))
		if err != nil {
			if os.IsNotExist(err) {
				return nil, xerrors.Errorf(`ref "%s": %w`, name, ginternals.ErrRefNotFound)
			}
			return nil, xerrors.Errorf("could not read reference content: %w", err)
		}
		return data, nil
	}
	return ginternals.ResolveReference(name, finder)
}

// WriteReference writes the given reference on disk, overwriting it
// if it already exists.
func (b *Backend) WriteReference(ref *ginternals.Reference) error {
	if !ginternals.IsRefNameValid(ref.Name()) {
		return ginternals.ErrRefNameInvalid
	}

	var target string
	switch ref.Type() {
	case ginternals.SymbolicReference:
		target = "ref: " + ref.SymbolicTarget() + "\n"
	case ginternals.OidReference:
		target = ref.Target().String() + "\n"
	default:
		return xerrors.Errorf("reference type %d: %w", ref.Type(), ginternals.ErrUnknownRefType)
	}

	p := b.systemPath(ref.Name())
	if err := b.fs.MkdirAll(filepath.Dir(p), 0o750); err != nil {
		return xerrors.Errorf("could not create directory for reference %s: %w", ref.Name(), err)
	}
	if err := afero.WriteFile(b.fs, p, []byte(target), 0o644); err != nil {
		return xerrors.Errorf("could not persist reference to disk: %w", err)
	}
	return nil
}

// WriteReferenceSafe writes the given reference, returning
// ErrRefExists if it already exists.
func (b *Backend) WriteReferenceSafe(ref *ginternals.Reference) error {
	if !ginternals.IsRefNameValid(ref.Name()) {
		return ginternals.ErrRefNameInvalid
	}

	p := b.systemPath(ref.Name())
	_, err := b.fs.Stat(p)
	if err == nil {
		return ginternals.ErrRefExists
	}
	if !os.IsNotExist(err) {
		return xerrors.Errorf("could not check if reference exists on disk: %w", err)
	}

	return b.WriteReference(ref)
}
