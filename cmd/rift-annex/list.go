// Copyright 2026 The Rift Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/cea-hpc/rift/cmd/rift-annex/cli"
)

type listParams struct {
	annexOptions
}

func listCommand() *cli.Command {
	var params listParams

	return &cli.Command{
		Name:    "list",
		Summary: "Inventory the annexed blobs",
		Usage:   "rift-annex list [flags]",
		Description: `List every blob at the annex read location with its size, first
push date, and the filenames it was pushed under. Listing requires a
local or S3 annex; a plain HTTP endpoint cannot enumerate.`,
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("list", pflag.ContinueOnError)
			params.AddFlags(flagSet)
			return flagSet
		},
		Run: func(args []string) error {
			a, _, err := params.open("list")
			if err != nil {
				return err
			}

			entries, err := a.List(context.Background())
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println("No annexed blobs found.")
				return nil
			}

			writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintf(writer, "DIGEST\tSIZE\tDATE\tFILENAMES\n")
			for _, entry := range entries {
				date := "-"
				if !entry.InsertionTime.IsZero() {
					date = entry.InsertionTime.Format("2006-01-02 15:04:05")
				}

				names := make([]string, 0, len(entry.Filenames))
				for name := range entry.Filenames {
					names = append(names, name)
				}
				sort.Strings(names)

				fmt.Fprintf(writer, "%s\t%s\t%s\t%s\n",
					entry.Digest,
					formatSize(entry.Size),
					date,
					strings.Join(names, ", "),
				)
			}
			writer.Flush()
			return nil
		},
	}
}
