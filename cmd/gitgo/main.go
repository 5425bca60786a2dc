// Command gitgo is a minimal, content-addressed, git-compatible object
// store with seven plumbing/porcelain operations: init, cat-file,
// hash-object, ls-tree, write-tree, commit-tree, and clone.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "gitgo",
		Short:         "a minimal git-compatible object store",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newCatFileCmd())
	cmd.AddCommand(newHashObjectCmd())
	cmd.AddCommand(newLsTreeCmd())
	cmd.AddCommand(newWriteTreeCmd())
	cmd.AddCommand(newCommitTreeCmd())
	cmd.AddCommand(newCloneCmd())

	return cmd
}
