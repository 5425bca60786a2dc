package gitgo

import (
	"time"

	"github.com/colinmarc/gitgo/ginternals"
	"github.com/colinmarc/gitgo/ginternals/object"
	"golang.org/x/xerrors"
)

// defaultAuthorName and defaultAuthorEmail stand in for a real
// identity: there is no user.name/user.email config layer, so every
// commit is attributed the same way.
const (
	defaultAuthorName  = "gitgo"
	defaultAuthorEmail = "gitgo@localhost"
)

// CommitTree writes a new commit object pointing at treeID, with the
// given message and parents, and returns its id.
func (r *Repository) CommitTree(treeID ginternals.Oid, message string, parents []ginternals.Oid) (ginternals.Oid, error) {
	if _, err := r.GetObject(treeID); err != nil {
		return ginternals.NullOid, xerrors.Errorf("invalid tree %s: %w", treeID.String(), err)
	}
	for _, p := range parents {
		if _, err := r.GetObject(p); err != nil {
			return ginternals.NullOid, xerrors.Errorf("invalid parent %s: %w", p.String(), err)
		}
	}

	sig := object.NewSignature(defaultAuthorName, defaultAuthorEmail, time.Now())
	c := object.NewCommit(treeID, sig, &object.CommitOptions{
		Message:   message,
		ParentIDs: parents,
	})

	oid, err := r.WriteObject(c.ToObject())
	if err != nil {
		return ginternals.NullOid, xerrors.Errorf("could not write commit: %w", err)
	}
	return oid, nil
}
