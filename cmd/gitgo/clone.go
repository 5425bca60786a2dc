package main

import (
	"context"
	"fmt"

	gitgo "github.com/colinmarc/gitgo"
	"github.com/spf13/cobra"
)

func newCloneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clone <url> <dir>",
		Short: "clone a remote repository over smart-HTTP",
		Args:  cobra.ExactArgs(2),
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		r, err := gitgo.Clone(context.Background(), args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Cloned into %s\n", r.WorkDir())
		return nil
	}

	return cmd
}
