package object_test

import (
	"testing"
	"time"

	"github.com/colinmarc/gitgo/ginternals"
	"github.com/colinmarc/gitgo/ginternals/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommitRoundTrip(t *testing.T) {
	t.Parallel()

	treeID := ginternals.NewOidFromContent([]byte("tree"))
	parentID := ginternals.NewOidFromContent([]byte("parent"))
	loc := time.FixedZone("", -7*60*60)
	author := object.NewSignature("Ada Lovelace", "ada@example.com", time.Unix(1566115917, 0).In(loc))

	c := object.NewCommit(treeID, author, &object.CommitOptions{
		Message:   "initial commit\n",
		ParentIDs: []ginternals.Oid{parentID},
	})

	assert.Equal(t, author, c.Committer(), "committer should default to the author")

	o := c.ToObject()
	parsed, err := o.AsCommit()
	require.NoError(t, err)
	assert.Equal(t, c.ID(), parsed.ID())
	assert.Equal(t, treeID, parsed.TreeID())
	assert.Equal(t, []ginternals.Oid{parentID}, parsed.ParentIDs())
	assert.Equal(t, "initial commit\n", parsed.Message())
	assert.Equal(t, author.Name, parsed.Author().Name)
	assert.Equal(t, author.Email, parsed.Author().Email)
	assert.Equal(t, author.Time.Unix(), parsed.Author().Time.Unix())
}

func TestCommitMissingTree(t *testing.T) {
	t.Parallel()

	o := object.New(object.TypeCommit, []byte("author a <a@b.c> 1 +0000\n\nmsg"))
	_, err := o.AsCommit()
	assert.ErrorIs(t, err, object.ErrCommitInvalid)
}

func TestCommitMissingAuthor(t *testing.T) {
	t.Parallel()

	treeID := ginternals.NewOidFromContent([]byte("tree"))
	o := object.New(object.TypeCommit, []byte("tree "+treeID.String()+"\n\nmsg"))
	_, err := o.AsCommit()
	assert.ErrorIs(t, err, object.ErrCommitInvalid)
}
