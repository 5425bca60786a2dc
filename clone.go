package gitgo

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/colinmarc/gitgo/ginternals"
	"github.com/colinmarc/gitgo/ginternals/object"
	"github.com/colinmarc/gitgo/internal/gitpath"
	"github.com/colinmarc/gitgo/transport"
	"golang.org/x/xerrors"
)

// Clone performs a full clone of the remote at url into dir: it
// initializes a new repository, runs the smart-HTTP discover/want
// exchange, imports the resulting packfile, writes the advertised
// refs, and checks out the default branch into the working directory.
func Clone(ctx context.Context, url, dir string) (*Repository, error) {
	r, err := Init(dir)
	if err != nil {
		return nil, xerrors.Errorf("could not initialize %s: %w", dir, err)
	}

	client := http.DefaultClient
	refs, err := transport.Discover(ctx, client, url)
	if err != nil {
		return nil, xerrors.Errorf("could not discover refs from %s: %w", url, err)
	}

	head, ok := refs.ByName("HEAD")
	if !ok {
		return nil, xerrors.Errorf("%s advertised no HEAD: %w", url, transport.ErrProtocol)
	}

	pack, err := transport.UploadPack(ctx, client, url, []ginternals.Oid{head.ID}, refs.Capabilities)
	if err != nil {
		return nil, xerrors.Errorf("could not fetch pack from %s: %w", url, err)
	}

	if err := r.dotGit.WritePack(pack); err != nil {
		return nil, xerrors.Errorf("could not import pack: %w", err)
	}

	branch := ""
	for _, ref := range refs.Refs {
		if ref.Name == "HEAD" {
			continue
		}
		if err := r.WriteReference(ginternals.NewReference(ref.Name, ref.ID)); err != nil {
			return nil, xerrors.Errorf("could not write reference %s: %w", ref.Name, err)
		}
		if branch == "" && ref.ID == head.ID && strings.HasPrefix(ref.Name, gitpath.RefsHeadsPath+"/") {
			branch = ref.Name
		}
	}
	if branch == "" {
		branch = gitpath.LocalBranch("main")
	}
	if err := r.WriteReference(ginternals.NewSymbolicReference(ginternals.Head, branch)); err != nil {
		return nil, xerrors.Errorf("could not write HEAD: %w", err)
	}

	o, err := r.GetObject(head.ID)
	if err != nil {
		return nil, xerrors.Errorf("could not read commit %s: %w", head.ID.String(), err)
	}
	commit, err := o.AsCommit()
	if err != nil {
		return nil, xerrors.Errorf("HEAD does not point at a commit: %w", err)
	}

	if err := r.checkoutTree(commit.TreeID(), r.workdir); err != nil {
		return nil, xerrors.Errorf("could not check out working tree: %w", err)
	}

	return r, nil
}

// checkoutTree writes every entry of the tree at treeID into dir,
// recursing into sub-trees.
func (r *Repository) checkoutTree(treeID ginternals.Oid, dir string) error {
	o, err := r.GetObject(treeID)
	if err != nil {
		return xerrors.Errorf("could not read tree %s: %w", treeID.String(), err)
	}
	tree, err := o.AsTree()
	if err != nil {
		return xerrors.Errorf("%s is not a tree: %w", treeID.String(), err)
	}

	for _, e := range tree.Entries() {
		path := filepath.Join(dir, e.Path)

		switch e.Mode {
		case object.ModeGitLink, object.ModeSymLink:
			// Submodules and symlinks aren't checked out.
			continue
		}

		switch e.Mode.ObjectType() {
		case object.TypeTree:
			if err := os.MkdirAll(path, 0o750); err != nil {
				return xerrors.Errorf("could not create directory %s: %w", path, err)
			}
			if err := r.checkoutTree(e.ID, path); err != nil {
				return err
			}
		case object.TypeBlob:
			blobObj, err := r.GetObject(e.ID)
			if err != nil {
				return xerrors.Errorf("could not read blob %s: %w", e.ID.String(), err)
			}
			mode := os.FileMode(0o644)
			if e.Mode == object.ModeExecutable {
				mode = 0o755
			}
			if err := os.WriteFile(path, blobObj.Bytes(), mode); err != nil {
				return xerrors.Errorf("could not write %s: %w", path, err)
			}
		}
	}
	return nil
}
