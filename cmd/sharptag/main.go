// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command sharptag renders documents containing sharptag tags.
//
//	sharptag render [flags] FILE
//	sharptag serve [flags]
//	sharptag lint FILE...
//	sharptag cache get|set|delete|list
//	sharptag version
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/open2b/sharptag/internal/ctxlog"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "sharptag: %v\n", err)
		os.Exit(1)
	}
}

// globalFlags are the flags shared by all the commands.
type globalFlags struct {
	config string
	debug  bool
}

func newRootCmd() *cobra.Command {
	var flags globalFlags
	root := &cobra.Command{
		Use:           "sharptag",
		Short:         "Render documents containing sharptag tags",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger := ctxlog.New(cmd.ErrOrStderr(), flags.debug)
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(ctxlog.WithLogger(ctx, logger))
		},
	}
	root.PersistentFlags().StringVarP(&flags.config, "config", "c", "", "Path to the configuration file")
	root.PersistentFlags().BoolVar(&flags.debug, "debug", false, "Log the unresolved names")
	root.AddCommand(
		newRenderCmd(&flags),
		newServeCmd(&flags),
		newLintCmd(&flags),
		newCacheCmd(&flags),
		newVersionCmd(),
	)
	return root
}
