package gitgo

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/colinmarc/gitgo/ginternals"
	"github.com/colinmarc/gitgo/ginternals/object"
	"github.com/colinmarc/gitgo/internal/gitpath"
	"golang.org/x/xerrors"
)

// TreeBuilder accumulates entries and writes them out as a single tree
// object.
type TreeBuilder struct {
	repo    *Repository
	entries map[string]object.TreeEntry
}

// NewTreeBuilder creates a new, empty tree builder.
func (r *Repository) NewTreeBuilder() *TreeBuilder {
	return &TreeBuilder{repo: r}
}

// Insert adds or replaces the entry at path.
func (tb *TreeBuilder) Insert(path string, oid ginternals.Oid, mode object.TreeObjectMode) error {
	if !mode.IsValid() {
		return xerrors.Errorf("invalid mode %o", mode)
	}
	if tb.entries == nil {
		tb.entries = map[string]object.TreeEntry{}
	}
	tb.entries[path] = object.TreeEntry{Path: path, ID: oid, Mode: mode}
	return nil
}

// Write persists the accumulated entries as a tree object and returns
// it.
func (tb *TreeBuilder) Write() (*object.Tree, error) {
	paths := make([]string, 0, len(tb.entries))
	for p := range tb.entries {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	entries := make([]object.TreeEntry, 0, len(paths))
	for _, p := range paths {
		entries = append(entries, tb.entries[p])
	}

	t := object.NewTree(entries)
	if _, err := tb.repo.WriteObject(t.ToObject()); err != nil {
		return nil, xerrors.Errorf("could not write tree: %w", err)
	}
	return t, nil
}

// WriteTree recursively hashes dir (the working directory, typically
// r.WorkDir()), persisting a blob for every file and a tree for every
// directory, skipping the repository's own .git directory. It returns
// the id of the root tree.
func (r *Repository) WriteTree(dir string) (ginternals.Oid, error) {
	t, err := r.writeTreeDir(dir)
	if err != nil {
		return ginternals.NullOid, err
	}
	return t.ID(), nil
}

func (r *Repository) writeTreeDir(dir string) (*object.Tree, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, xerrors.Errorf("could not read directory %s: %w", dir, err)
	}

	tb := r.NewTreeBuilder()
	for _, e := range entries {
		if e.Name() == gitpath.DotGitPath {
			continue
		}
		path := filepath.Join(dir, e.Name())

		if e.IsDir() {
			sub, err := r.writeTreeDir(path)
			if err != nil {
				return nil, err
			}
			if err := tb.Insert(e.Name(), sub.ID(), object.ModeDirectory); err != nil {
				return nil, err
			}
			continue
		}

		info, err := e.Info()
		if err != nil {
			return nil, xerrors.Errorf("could not stat %s: %w", path, err)
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, xerrors.Errorf("could not read %s: %w", path, err)
		}

		blob, err := r.NewBlob(content)
		if err != nil {
			return nil, xerrors.Errorf("could not write blob for %s: %w", path, err)
		}

		mode := object.ModeFile
		if info.Mode()&0o111 != 0 {
			mode = object.ModeExecutable
		}
		if err := tb.Insert(e.Name(), blob.ID(), mode); err != nil {
			return nil, err
		}
	}

	return tb.Write()
}
