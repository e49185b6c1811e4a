// Copyright 2026 The Rift Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/cea-hpc/rift/cmd/rift-annex/cli"
)

type importParams struct {
	annexOptions
	Scratch bool
}

func importCommand() *cli.Command {
	var params importParams

	return &cli.Command{
		Name:    "import",
		Summary: "Materialize a source directory with pointers resolved",
		Usage:   "rift-annex import <directory> [flags]",
		Description: `Copy a source directory into a scratch directory, replacing every
pointer file with its annexed content. Plain files are copied
verbatim; subdirectories are skipped.

The scratch directory is created only when the source actually holds
a pointer file (use --scratch to create it regardless). Its path is
printed to stdout; the caller owns it and removes it when done.`,
		Examples: []cli.Example{
			{
				Description: "Materialize a package's sources",
				Command:     "rift-annex import packages/kernel/sources",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("import", pflag.ContinueOnError)
			params.AddFlags(flagSet)
			flagSet.BoolVar(&params.Scratch, "scratch", false, "create the scratch directory even without pointers")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("exactly one directory required\n\nUsage: rift-annex import <directory> [flags]")
			}

			a, _, err := params.open("import")
			if err != nil {
				return err
			}

			scratch, err := a.ImportDir(context.Background(), args[0], params.Scratch)
			if err != nil {
				return err
			}
			if !scratch.Created() {
				fmt.Fprintf(os.Stderr, "no annexed files in %s\n", args[0])
				return nil
			}

			fmt.Println(scratch.Path)
			return nil
		},
	}
}
