// Copyright 2026 The Rift Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/cea-hpc/rift/cmd/rift-annex/cli"
)

type deleteParams struct {
	annexOptions
}

func deleteCommand() *cli.Command {
	var params deleteParams

	return &cli.Command{
		Name:    "delete",
		Summary: "Delete blobs from a local annex",
		Usage:   "rift-annex delete <digest>... [flags]",
		Description: `Remove blobs and their metadata sidecars from the annex. Only a
local annex supports deletion; remote (HTTP or S3) annexes refuse.`,
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("delete", pflag.ContinueOnError)
			params.AddFlags(flagSet)
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("digest argument required\n\nUsage: rift-annex delete <digest>... [flags]")
			}

			a, _, err := params.open("delete")
			if err != nil {
				return err
			}
			ctx := context.Background()

			for _, id := range args {
				if err := a.Delete(ctx, id); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
