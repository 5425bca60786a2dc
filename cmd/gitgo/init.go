package main

import (
	"fmt"
	"os"

	gitgo "github.com/colinmarc/gitgo"
	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "create an empty repository in the current directory",
		Args:  cobra.NoArgs,
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		pwd, err := os.Getwd()
		if err != nil {
			return err
		}
		_, err = gitgo.Init(pwd)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Initialized empty Git repository in %s/.git\n", pwd)
		return nil
	}

	return cmd
}
