package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newWriteTreeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "write-tree",
		Short: "create a tree object from the working directory",
		Args:  cobra.NoArgs,
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		r, err := loadRepository()
		if err != nil {
			return err
		}
		oid, err := r.WriteTree(r.WorkDir())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), oid.String())
		return nil
	}

	return cmd
}
