// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"sort"

	"github.com/spf13/cobra"
)

func newCacheCmd(global *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Read and write the cache file",
		Long: `Cache reads and writes the values of the cache file set in the configuration.
Keys are stored as they are, so a key of the "shop" namespace is written as
"shop.key".`,
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "get KEY",
			Short: "Print the value of a key",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				e, err := loadEnv(global.config)
				if err != nil {
					return err
				}
				v, ok, err := e.cache.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("key %q is not in the cache", args[0])
				}
				fmt.Fprintln(cmd.OutOrStdout(), v)
				return nil
			},
		},
		&cobra.Command{
			Use:   "set KEY VALUE",
			Short: "Set the value of a key",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				e, err := loadEnv(global.config)
				if err != nil {
					return err
				}
				e.cache.Set(args[0], args[1])
				return e.saveCache()
			},
		},
		&cobra.Command{
			Use:   "delete KEY",
			Short: "Delete a key",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				e, err := loadEnv(global.config)
				if err != nil {
					return err
				}
				e.cache.Delete(args[0])
				return e.saveCache()
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "Print the keys and the values",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				e, err := loadEnv(global.config)
				if err != nil {
					return err
				}
				values := e.cache.Snapshot()
				keys := make([]string, 0, len(values))
				for k := range values {
					keys = append(keys, k)
				}
				sort.Strings(keys)
				for _, k := range keys {
					fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", k, values[k])
				}
				return nil
			},
		},
	)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			version := "(devel)"
			if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
				version = info.Main.Version
			}
			fmt.Fprintf(cmd.OutOrStdout(), "sharptag version %s\n", version)
			fmt.Fprintf(cmd.OutOrStdout(), "Go version used to build sharptag: %s\n", runtime.Version())
		},
	}
}
