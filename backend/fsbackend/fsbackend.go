// Package fsbackend contains a backend.Backend implementation backed
// by an afero.Fs filesystem.
package fsbackend

import (
	"os"
	"path/filepath"

	"github.com/colinmarc/gitgo/backend"
	"github.com/colinmarc/gitgo/internal/cache"
	"github.com/colinmarc/gitgo/internal/gitpath"
	"github.com/colinmarc/gitgo/internal/syncutil"
	"github.com/spf13/afero"
	"golang.org/x/xerrors"
)

// we make sure the struct implements the interface.
var _ backend.Backend = (*Backend)(nil)

// defaultCacheSize is the number of objects kept in the read-through
// LRU cache in front of the loose store.
const defaultCacheSize = 256

// defaultMutexStripes is the number of stripes used to serialize
// concurrent access to a given object id.
const defaultMutexStripes = 64

// Backend is a backend.Backend implementation that stores objects and
// references on a filesystem, abstracted behind afero.Fs so tests can
// drive it against an in-memory filesystem.
type Backend struct {
	root      string
	objectDir string
	fs        afero.Fs

	cache    *cache.LRU
	objectMu *syncutil.NamedMutex
}

// New returns a new Backend rooted at dotGitPath (typically
// "<workdir>/.git"), storing objects under dotGitPath/objects.
func New(dotGitPath string, fs afero.Fs) *Backend {
	return NewWithObjectDir(dotGitPath, filepath.Join(dotGitPath, gitpath.ObjectsPath), fs)
}

// NewWithObjectDir returns a new Backend rooted at dotGitPath, storing
// objects under the given objectDir instead of dotGitPath/objects.
// This is how GIT_OBJECT_DIRECTORY overrides are threaded through,
// mirroring the teacher's config-driven path resolution.
func NewWithObjectDir(dotGitPath, objectDir string, fs afero.Fs) *Backend {
	c, _ := cache.NewLRU(defaultCacheSize) // defaultCacheSize is always > 0
	return &Backend{
		root:      dotGitPath,
		objectDir: objectDir,
		fs:        fs,
		cache:     c,
		objectMu:  syncutil.NewNamedMutex(defaultMutexStripes),
	}
}

// Init initializes a repository on disk: the object/ref directory
// tree, a description file, and a default config.
func (b *Backend) Init() error {
	dirs := []string{
		b.objectDir,
		filepath.Join(b.objectDir, "info"),
		filepath.Join(b.objectDir, "pack"),
		filepath.Join(b.root, gitpath.RefsTagsPath),
		filepath.Join(b.root, gitpath.RefsHeadsPath),
	}
	for _, d := range dirs {
		if err := b.fs.MkdirAll(d, 0o750); err != nil {
			return xerrors.Errorf("could not create directory %s: %w", d, err)
		}
	}

	descPath := filepath.Join(b.root, gitpath.DescriptionPath)
	descContent := []byte("Unnamed repository; edit this file 'description' to name the repository.\n")
	if err := afero.WriteFile(b.fs, descPath, descContent, 0o644); err != nil {
		return xerrors.Errorf("could not create %s: %w", descPath, err)
	}

	headPath := filepath.Join(b.root, gitpath.HEADPath)
	if err := afero.WriteFile(b.fs, headPath, []byte("ref: refs/heads/main\n"), 0o644); err != nil {
		return xerrors.Errorf("could not create %s: %w", headPath, err)
	}

	if err := b.setDefaultCfg(); err != nil {
		return xerrors.Errorf("could not set the default config: %w", err)
	}
	return nil
}

// IsInitialized reports whether a repository already exists at root,
// probed the way the teacher's OpenRepository does: by checking for
// an existing HEAD file.
func (b *Backend) IsInitialized() bool {
	_, err := b.fs.Stat(filepath.Join(b.root, gitpath.HEADPath))
	return err == nil
}

// systemPath turns a unix-style repo-relative path (as refs are
// always stored) into a path valid for the host filesystem.
func (b *Backend) systemPath(name string) string {
	if os.PathSeparator == '/' {
		return filepath.Join(b.root, name)
	}
	return filepath.Join(b.root, filepath.FromSlash(name))
}
