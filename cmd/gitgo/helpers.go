package main

import (
	"os"

	gitgo "github.com/colinmarc/gitgo"
	"golang.org/x/xerrors"
)

func loadRepository() (*gitgo.Repository, error) {
	pwd, err := os.Getwd()
	if err != nil {
		return nil, xerrors.Errorf("could not get working directory: %w", err)
	}
	return gitgo.Open(pwd)
}
