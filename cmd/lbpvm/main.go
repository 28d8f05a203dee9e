// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ava-labs/lbpvm/consts"
)

var rootCmd = &cobra.Command{
	Use:     "lbpvm",
	Short:   "Liquidity bootstrapping pool node and client",
	Long:    `Runs a liquidity bootstrapping pool node, and queries pools, quotes and weights from a running node.`,
	Version: consts.Version,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	os.Exit(0)
}

func init() {
	cobra.EnablePrefixMatching = true
	rootCmd.CompletionOptions.HiddenDefaultCmd = true
	rootCmd.DisableAutoGenTag = true
	rootCmd.SilenceUsage = true

	rootCmd.PersistentFlags().StringP("output", "o", "text", "Output format (text or json)")
	rootCmd.PersistentFlags().String("endpoint", "", "URI of the node to query")
}

func main() {
	Execute()
}
