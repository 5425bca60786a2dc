package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/colinmarc/gitgo/ginternals"
	"github.com/spf13/cobra"
	"golang.org/x/xerrors"
)

func newLsTreeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ls-tree <id>",
		Short: "list the contents of a tree object",
		Args:  cobra.ExactArgs(1),
	}

	nameOnly := cmd.Flags().Bool("name-only", false, "list only the names of the entries")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return lsTreeCmd(cmd.OutOrStdout(), args[0], *nameOnly)
	}

	return cmd
}

func lsTreeCmd(out io.Writer, objectName string, nameOnly bool) error {
	r, err := loadRepository()
	if err != nil {
		return err
	}

	oid, err := ginternals.NewOidFromStr(objectName)
	if err != nil {
		return xerrors.Errorf("not a valid object name %s: %w", objectName, err)
	}

	o, err := r.GetObject(oid)
	if err != nil {
		return err
	}
	tree, err := o.AsTree()
	if err != nil {
		return err
	}

	entries := tree.Entries()

	if nameOnly {
		names := make([]string, len(entries))
		for i, e := range entries {
			names[i] = e.Path
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintln(out, name)
		}
		return nil
	}

	for _, e := range entries {
		fmt.Fprintf(out, "%06o %s %s\t%s\n", e.Mode, e.Mode.ObjectType().String(), e.ID.String(), e.Path)
	}
	return nil
}
