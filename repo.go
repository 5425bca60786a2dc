// Package gitgo implements a minimal, content-addressed, git-compatible
// object store: loose objects, packfile import, and enough of the
// smart-HTTP protocol to clone a remote repository.
package gitgo

import (
	"path/filepath"

	"github.com/colinmarc/gitgo/backend"
	"github.com/colinmarc/gitgo/backend/fsbackend"
	"github.com/colinmarc/gitgo/ginternals"
	"github.com/colinmarc/gitgo/ginternals/config"
	"github.com/colinmarc/gitgo/ginternals/object"
	"github.com/spf13/afero"
	"golang.org/x/xerrors"
)

// Repository is a handle on a git repository: an object/ref store (the
// backend.Backend) and the working tree it was checked out into.
//
// The backend is kept behind the backend.Backend interface rather than
// referenced as a concrete *fsbackend.Backend, so nothing above this
// file ever needs to import afero or fsbackend directly.
type Repository struct {
	workdir string
	dotGit  backend.Backend
	wt      afero.Fs
}

// Init creates a new repository on disk at path, which must not
// already contain one. The location of .git and its objects directory
// honor the GIT_DIR and GIT_OBJECT_DIRECTORY environment variables,
// the way git plumbing commands do.
func Init(path string) (*Repository, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, xerrors.Errorf("could not resolve %s: %w", path, err)
	}

	cfg, err := config.LoadConfig(absPath)
	if err != nil {
		return nil, xerrors.Errorf("could not resolve repository config: %w", err)
	}

	wt := afero.NewOsFs()
	b := fsbackend.NewWithObjectDir(cfg.GitDirPath, cfg.ObjectDirPath, wt)
	if b.IsInitialized() {
		return nil, xerrors.Errorf("%s: %w", absPath, ginternals.ErrRepositoryAlreadyInitialized)
	}

	if err := wt.MkdirAll(absPath, 0o750); err != nil {
		return nil, xerrors.Errorf("could not create %s: %w", absPath, err)
	}
	if err := b.Init(); err != nil {
		return nil, xerrors.Errorf("could not initialize %s: %w", cfg.GitDirPath, err)
	}

	return &Repository{workdir: absPath, dotGit: b, wt: wt}, nil
}

// Open opens an existing repository rooted at path, honoring the same
// GIT_DIR / GIT_OBJECT_DIRECTORY overrides as Init.
func Open(path string) (*Repository, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, xerrors.Errorf("could not resolve %s: %w", path, err)
	}

	cfg, err := config.LoadConfig(absPath)
	if err != nil {
		return nil, xerrors.Errorf("could not resolve repository config: %w", err)
	}

	wt := afero.NewOsFs()
	b := fsbackend.NewWithObjectDir(cfg.GitDirPath, cfg.ObjectDirPath, wt)
	if !b.IsInitialized() {
		return nil, xerrors.Errorf("%s: %w", absPath, ginternals.ErrRepositoryNotFound)
	}

	return &Repository{workdir: absPath, dotGit: b, wt: wt}, nil
}

// WorkDir returns the absolute path of the repository's working
// directory (the directory containing .git, not .git itself).
func (r *Repository) WorkDir() string {
	return r.workdir
}

// Backend returns the repository's object/ref store.
func (r *Repository) Backend() backend.Backend {
	return r.dotGit
}

// GetObject returns the object stored under oid.
func (r *Repository) GetObject(oid ginternals.Oid) (*object.Object, error) {
	o, err := r.dotGit.Object(oid)
	if err != nil {
		return nil, xerrors.Errorf("could not get object %s: %w", oid.String(), err)
	}
	return o, nil
}

// WriteObject persists o and returns its id.
func (r *Repository) WriteObject(o *object.Object) (ginternals.Oid, error) {
	oid, err := r.dotGit.WriteObject(o)
	if err != nil {
		return ginternals.NullOid, xerrors.Errorf("could not write object: %w", err)
	}
	return oid, nil
}

// GetReference returns the reference stored under name ("HEAD",
// "refs/heads/main", ...).
func (r *Repository) GetReference(name string) (*ginternals.Reference, error) {
	ref, err := r.dotGit.Reference(name)
	if err != nil {
		return nil, xerrors.Errorf("could not get reference %s: %w", name, err)
	}
	return ref, nil
}

// WriteReference writes ref, overwriting any existing reference with
// the same name.
func (r *Repository) WriteReference(ref *ginternals.Reference) error {
	if err := r.dotGit.WriteReference(ref); err != nil {
		return xerrors.Errorf("could not write reference %s: %w", ref.Name(), err)
	}
	return nil
}

// NewBlob creates and persists a new blob object from content.
func (r *Repository) NewBlob(content []byte) (*object.Blob, error) {
	b := object.NewBlobFromContent(content)
	if _, err := r.WriteObject(b.ToObject()); err != nil {
		return nil, xerrors.Errorf("could not persist blob: %w", err)
	}
	return b, nil
}
