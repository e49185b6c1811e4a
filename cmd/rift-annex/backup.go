// Copyright 2026 The Rift Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/cea-hpc/rift/cmd/rift-annex/cli"
	"github.com/cea-hpc/rift/lib/annex"
)

type backupParams struct {
	annexOptions
	OutputPath  string
	Compression string
}

func backupCommand() *cli.Command {
	var params backupParams

	return &cli.Command{
		Name:    "backup",
		Summary: "Export referenced blobs into a compressed tar archive",
		Usage:   "rift-annex backup <file>... [flags]",
		Description: `Collect the blobs and metadata sidecars referenced by the given
pointer files into a tar archive. Non-pointer arguments are ignored,
so the whole working tree can be passed. Blobs that cannot be fetched
are skipped, not fatal.

The archive path is printed to stdout; without -o it lands in a
temporary file.`,
		Examples: []cli.Example{
			{
				Description: "Back up a package's annexed sources",
				Command:     "rift-annex backup packages/kernel/sources/* -o kernel-annex.tar.gz",
			},
			{
				Description: "Use zstd instead of gzip",
				Command:     "rift-annex backup sources/* --compression zstd -o annex.tar.zst",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("backup", pflag.ContinueOnError)
			params.AddFlags(flagSet)
			flagSet.StringVarP(&params.OutputPath, "output", "o", "", "archive path (default: a temporary file)")
			flagSet.StringVar(&params.Compression, "compression", "gzip", "archive compression: gzip, zstd, or lz4")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("file argument required\n\nUsage: rift-annex backup <file>... [flags]")
			}

			compression, err := annex.ParseCompression(params.Compression)
			if err != nil {
				return err
			}

			a, _, err := params.open("backup")
			if err != nil {
				return err
			}

			output, err := a.Backup(context.Background(), args, params.OutputPath, compression,
				func(done, total int) {
					fmt.Fprintf(os.Stderr, "\rbacking up %d/%d", done, total)
					if done == total {
						fmt.Fprintln(os.Stderr)
					}
				})
			if err != nil {
				return err
			}

			fmt.Println(output)
			return nil
		},
	}
}
