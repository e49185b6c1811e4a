// Copyright 2026 The Rift Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/pflag"

	"github.com/cea-hpc/rift/cmd/rift-annex/cli"
	"github.com/cea-hpc/rift/lib/annex"
	"github.com/cea-hpc/rift/lib/config"
)

// rootCommand returns the top-level command with all subcommands.
func rootCommand() *cli.Command {
	return &cli.Command{
		Name:    "rift-annex",
		Summary: "Manage binary files stored in a content-addressed annex",
		Description: `Store, retrieve, and inventory large binary files kept out of tree.

Files pushed into the annex are replaced in place by a 32-character
digest pointer; the content lives in the annex under its digest, next
to a metadata sidecar recording every filename it was pushed under.

The annex location comes from a YAML config file named by the
RIFT_ANNEX_CONFIG environment variable or the --config flag.`,
		Subcommands: []*cli.Command{
			pushCommand(),
			getCommand(),
			deleteCommand(),
			listCommand(),
			backupCommand(),
			importCommand(),
		},
		Examples: []cli.Example{
			{
				Description: "Push a tarball into the annex",
				Command:     "rift-annex push kernel-6.8.tar.xz",
			},
			{
				Description: "Retrieve a blob by digest",
				Command:     "rift-annex get 5d41402abc4b2a76b9719d911017c592 -o kernel-6.8.tar.xz",
			},
			{
				Description: "Inventory the annex",
				Command:     "rift-annex list",
			},
		},
	}
}

// annexOptions holds the flags shared by every subcommand.
type annexOptions struct {
	ConfigPath string
	Verbose    bool
}

// AddFlags registers the shared --config and --verbose flags.
func (o *annexOptions) AddFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVarP(&o.ConfigPath, "config", "c", "",
		"annex config file (default: $"+config.EnvVar+")")
	flagSet.BoolVarP(&o.Verbose, "verbose", "v", false, "enable debug logging")
}

// open loads the configuration and builds the store engine, with a
// logger scoped to the running command.
func (o *annexOptions) open(command string) (*annex.Annex, *slog.Logger, error) {
	logger := cli.NewCommandLogger(o.Verbose).With("command", command)

	var cfg *config.Config
	var err error
	if o.ConfigPath != "" {
		cfg, err = config.LoadFile(o.ConfigPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	a, err := annex.New(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return a, logger, nil
}

// formatSize returns a human-readable file size.
func formatSize(bytes int64) string {
	switch {
	case bytes >= 1<<30:
		return fmt.Sprintf("%.1f GB", float64(bytes)/float64(1<<30))
	case bytes >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(1<<20))
	case bytes >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(1<<10))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
