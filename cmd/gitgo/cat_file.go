package main

import (
	"fmt"
	"io"

	"github.com/colinmarc/gitgo/ginternals"
	"github.com/spf13/cobra"
	"golang.org/x/xerrors"
)

func newCatFileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cat-file -p <id>",
		Short: "provide the content of a repository object",
		Args:  cobra.ExactArgs(1),
	}

	prettyPrint := cmd.Flags().BoolP("p", "p", false, "pretty-print the object's content")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if !*prettyPrint {
			return xerrors.New("cat-file requires -p")
		}
		return catFileCmd(cmd.OutOrStdout(), args[0])
	}
	return cmd
}

func catFileCmd(out io.Writer, objectName string) error {
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

	fmt.Fprint(out, string(o.Bytes()))
	return nil
}
