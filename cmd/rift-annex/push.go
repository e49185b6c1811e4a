// Copyright 2026 The Rift Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/cea-hpc/rift/cmd/rift-annex/cli"
	"github.com/cea-hpc/rift/lib/digest"
	"github.com/cea-hpc/rift/lib/pointer"
)

type pushParams struct {
	annexOptions
	Force bool
}

func pushCommand() *cli.Command {
	var params pushParams

	return &cli.Command{
		Name:    "push",
		Summary: "Import files into the annex, leaving pointers behind",
		Usage:   "rift-annex push <file>... [flags]",
		Description: `Upload files to the annex push location and replace each one in
place with its digest pointer.

Only binary files belong in the annex; a file that looks like text is
refused unless --force is given. Files that are already pointers are
skipped.`,
		Examples: []cli.Example{
			{
				Description: "Push a source tarball",
				Command:     "rift-annex push kernel-6.8.tar.xz",
			},
			{
				Description: "Push a text file anyway",
				Command:     "rift-annex push huge-dataset.csv --force",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("push", pflag.ContinueOnError)
			params.AddFlags(flagSet)
			flagSet.BoolVar(&params.Force, "force", false, "push files that look like text")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("file argument required\n\nUsage: rift-annex push <file>... [flags]")
			}

			a, logger, err := params.open("push")
			if err != nil {
				return err
			}
			ctx := context.Background()

			for _, path := range args {
				if pointer.IsPointer(path) {
					logger.Info("already a pointer, skipping", "file", path)
					continue
				}

				binary, err := digest.IsBinary(path)
				if err != nil {
					return err
				}
				if !binary && !params.Force {
					return fmt.Errorf("%s looks like a text file; use --force to annex it anyway", path)
				}

				if err := a.Push(ctx, path); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
