package main

import (
	"fmt"
	"io"
	"os"

	"github.com/colinmarc/gitgo/ginternals/object"
	"github.com/spf13/cobra"
)

func newHashObjectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hash-object FILE",
		Short: "compute the id of a blob formed from a file's bytes",
		Args:  cobra.ExactArgs(1),
	}

	write := cmd.Flags().BoolP("w", "w", false, "write the object into the object database")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return hashObjectCmd(cmd.OutOrStdout(), args[0], *write)
	}

	return cmd
}

func hashObjectCmd(out io.Writer, filePath string, write bool) error {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}

	b := object.NewBlobFromContent(content)

	if write {
		r, err := loadRepository()
		if err != nil {
			return err
		}
		if _, err := r.WriteObject(b.ToObject()); err != nil {
			return err
		}
	}

	fmt.Fprintln(out, b.ID().String())
	return nil
}
