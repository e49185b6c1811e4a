// Copyright 2026 The Rift Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/cea-hpc/rift/cmd/rift-annex/cli"
	"github.com/cea-hpc/rift/lib/backend"
	"github.com/cea-hpc/rift/lib/pointer"
)

type getParams struct {
	annexOptions
	OutputPath string
}

func getCommand() *cli.Command {
	var params getParams

	return &cli.Command{
		Name:    "get",
		Summary: "Retrieve a blob by digest or pointer file",
		Usage:   "rift-annex get <digest|pointer-file> [flags]",
		Description: `Download a blob from the annex. The argument is either a bare
32-character digest or the path of a pointer file to resolve.

The blob is written to -o, defaulting to the pointer file's name (for
a pointer argument) or the digest itself. Exits 1 when the object is
not in the annex.`,
		Examples: []cli.Example{
			{
				Description: "Retrieve by digest",
				Command:     "rift-annex get 5d41402abc4b2a76b9719d911017c592 -o kernel.tar.xz",
			},
			{
				Description: "Resolve a pointer file in place",
				Command:     "rift-annex get sources/kernel-6.8.tar.xz",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("get", pflag.ContinueOnError)
			params.AddFlags(flagSet)
			flagSet.StringVarP(&params.OutputPath, "output", "o", "", "output file path")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("digest or pointer file required\n\nUsage: rift-annex get <digest|pointer-file> [flags]")
			}

			a, _, err := params.open("get")
			if err != nil {
				return err
			}
			ctx := context.Background()

			ref := args[0]
			id := ref
			output := params.OutputPath
			if pointer.IsPointer(ref) {
				if id, err = pointer.FromFile(ref); err != nil {
					return err
				}
				if output == "" {
					output = filepath.Base(ref)
				}
			}
			if output == "" {
				output = id
			}

			if err := a.Get(ctx, id, output); err != nil {
				if errors.Is(err, backend.ErrNotFound) {
					fmt.Fprintf(os.Stderr, "not found: %s\n", id)
					return &cli.ExitError{Code: 1}
				}
				return err
			}
			return nil
		},
	}
}
