// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ava-labs/lbpvm/asset"
	"github.com/ava-labs/lbpvm/pricing"
)

var quoteCmd = &cobra.Command{
	Use:   "quote [amount] [asset-in] [asset ...] [asset-out]",
	Short: "Simulate a swap along a path of assets",
	Long: `Simulates a swap without changing state. Two assets quote a single pool,
more assets quote a route through the pool of each consecutive pair.`,
	Args: cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("failed to parse amount: %w", err)
		}
		path := make([]asset.Asset, 0, len(args)-1)
		for _, s := range args[1:] {
			a, err := asset.Parse(s)
			if err != nil {
				return err
			}
			path = append(path, a)
		}
		exactOut, err := cmd.Flags().GetBool("exact-out")
		if err != nil {
			return err
		}
		at, err := cmd.Flags().GetInt64("at")
		if err != nil {
			return err
		}
		client, err := newClient(cmd)
		if err != nil {
			return err
		}

		ctx := context.Background()
		resp := quoteCmdResponse{Path: path}
		if len(path) == 2 {
			var q *pricing.Quote
			if exactOut {
				q, err = client.SimulateSwapExactOut(ctx, path[0], path[1], amount, at)
			} else {
				q, err = client.SimulateSwap(ctx, path[0], path[1], amount, at)
			}
			if err != nil {
				return err
			}
			resp.AmountIn = q.AmountIn
			resp.AmountOut = q.AmountOut
			resp.Hops = []*pricing.Quote{q}
		} else {
			r, err := client.SimulateRoute(ctx, path, amount, exactOut, at)
			if err != nil {
				return err
			}
			resp.AmountIn = r.AmountIn
			resp.AmountOut = r.AmountOut
			resp.Hops = r.Hops
		}
		return printValue(cmd, resp)
	},
}

type quoteCmdResponse struct {
	Path      []asset.Asset    `json:"path"`
	AmountIn  uint64           `json:"amountIn"`
	AmountOut uint64           `json:"amountOut"`
	Hops      []*pricing.Quote `json:"hops"`
}

func (r quoteCmdResponse) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d %s -> %d %s", r.AmountIn, r.Path[0], r.AmountOut, r.Path[len(r.Path)-1])
	for i, q := range r.Hops {
		fmt.Fprintf(&b, "\n  hop %d: %s -> %s in=%d out=%d fee=%d price %s -> %s",
			i, r.Path[i], r.Path[i+1], q.AmountIn, q.AmountOut, q.FeeAmount, q.SpotPriceBefore, q.SpotPriceAfter)
	}
	return b.String()
}

func init() {
	rootCmd.AddCommand(quoteCmd)
	quoteCmd.Flags().Bool("exact-out", false, "Treat the amount as the desired output")
	quoteCmd.Flags().Int64("at", 0, "Timestamp in ms to evaluate at (0 is now)")
}
