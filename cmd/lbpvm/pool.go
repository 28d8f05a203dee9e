// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ava-labs/lbpvm/api"
	"github.com/ava-labs/lbpvm/asset"
	"github.com/ava-labs/lbpvm/storage"
)

var poolCmd = &cobra.Command{
	Use:   "pool [asset-a] [asset-b]",
	Short: "Show the config and reserves of the pool for a pair",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		x, y, err := parsePair(args)
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
		reply, err := fetchPool(ctx, client, x, y, at)
		if err != nil {
			return err
		}
		return printValue(cmd, poolCmdResponse{reply})
	},
}

type poolCmdResponse struct {
	*api.PoolStateReply
}

func (r poolCmdResponse) String() string {
	var b strings.Builder
	cfg := r.Pool.Config
	state := r.Pool.State
	fmt.Fprintf(&b, "pool: %s\n", r.Pool.Address)
	fmt.Fprintf(&b, "assets: %s / %s\n", cfg.AssetA, cfg.AssetB)
	fmt.Fprintf(&b, "window: %d -> %d (weight A %d -> %d, %s)\n", cfg.StartTime, cfg.EndTime, cfg.StartWeightA, cfg.EndWeightA, r.Phase)
	fmt.Fprintf(&b, "fee: %d bps\n", cfg.FeeBps)
	fmt.Fprintf(&b, "reserves: %d / %d\n", state.ReserveA, state.ReserveB)
	fmt.Fprintf(&b, "shares: %d\n", state.TotalShares)
	fmt.Fprintf(&b, "spot price: %s", r.SpotPrice)
	return b.String()
}

var poolListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered pools, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		startAfter, err := cmd.Flags().GetStringSlice("start-after")
		if err != nil {
			return err
		}
		limit, err := cmd.Flags().GetInt("limit")
		if err != nil {
			return err
		}
		var cursor []asset.Asset
		if len(startAfter) != 0 {
			if len(startAfter) != 2 {
				return fmt.Errorf("--start-after takes two assets, got %d", len(startAfter))
			}
			x, y, err := parsePair(startAfter)
			if err != nil {
				return err
			}
			cursor = []asset.Asset{x, y}
		}
		client, err := newClient(cmd)
		if err != nil {
			return err
		}

		pairs, err := client.ListPairs(context.Background(), cursor, limit)
		if err != nil {
			return err
		}
		return printValue(cmd, poolListCmdResponse{Pairs: pairs})
	},
}

type poolListCmdResponse struct {
	Pairs []storage.Pair `json:"pairs"`
}

func (r poolListCmdResponse) String() string {
	if len(r.Pairs) == 0 {
		return "no pools"
	}
	lines := make([]string, 0, len(r.Pairs))
	for _, p := range r.Pairs {
		lines = append(lines, fmt.Sprintf("%s %s / %s", p.Pool, p.AssetA, p.AssetB))
	}
	return strings.Join(lines, "\n")
}

func init() {
	rootCmd.AddCommand(poolCmd)
	poolCmd.AddCommand(poolListCmd)
	poolCmd.Flags().Int64("at", 0, "Timestamp in ms to evaluate at (0 is now)")
	poolListCmd.Flags().StringSlice("start-after", nil, "Resume after this pair, as asset-a,asset-b")
	poolListCmd.Flags().Int("limit", storage.DefaultListLimit, fmt.Sprintf("Number of pools to list (at most %d)", storage.MaxListLimit))
}

func parsePair(args []string) (asset.Asset, asset.Asset, error) {
	x, err := asset.Parse(args[0])
	if err != nil {
		return asset.Asset{}, asset.Asset{}, err
	}
	y, err := asset.Parse(args[1])
	if err != nil {
		return asset.Asset{}, asset.Asset{}, err
	}
	return x, y, nil
}

func fetchPool(ctx context.Context, client *api.JSONRPCClient, x, y asset.Asset, at int64) (*api.PoolStateReply, error) {
	addr, err := client.LookupPool(ctx, x, y)
	if err != nil {
		return nil, fmt.Errorf("failed to find pool: %w", err)
	}
	return client.PoolState(ctx, addr, at)
}
