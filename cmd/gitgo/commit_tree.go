package main

import (
	"fmt"

	"github.com/colinmarc/gitgo/ginternals"
	"github.com/spf13/cobra"
	"golang.org/x/xerrors"
)

func newCommitTreeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "commit-tree <tree-id>",
		Short: "create a new commit object from a tree",
		Args:  cobra.ExactArgs(1),
	}

	message := cmd.Flags().StringP("message", "m", "", "the commit message")
	parents := cmd.Flags().StringArrayP("parent", "p", nil, "id of a parent commit (may be given more than once)")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if *message == "" {
			return xerrors.New("commit-tree requires -m")
		}

		r, err := loadRepository()
		if err != nil {
			return err
		}

		treeID, err := ginternals.NewOidFromStr(args[0])
		if err != nil {
			return xerrors.Errorf("not a valid tree id %s: %w", args[0], err)
		}

		parentIDs := make([]ginternals.Oid, len(*parents))
		for i, p := range *parents {
			parentIDs[i], err = ginternals.NewOidFromStr(p)
			if err != nil {
				return xerrors.Errorf("not a valid parent id %s: %w", p, err)
			}
		}

		oid, err := r.CommitTree(treeID, *message, parentIDs)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), oid.String())
		return nil
	}

	return cmd
}
