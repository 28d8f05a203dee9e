// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/ava-labs/lbpvm/asset"
	"github.com/ava-labs/lbpvm/consts"
)

var weightsCmd = &cobra.Command{
	Use:   "weights [asset-a] [asset-b]",
	Short: "Show the current weights of the pool for a pair",
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

		reply, err := fetchPool(context.Background(), client, x, y, at)
		if err != nil {
			return err
		}
		return printValue(cmd, weightsCmdResponse{
			AssetA:  reply.Pool.Config.AssetA,
			AssetB:  reply.Pool.Config.AssetB,
			WeightA: reply.WeightA,
			WeightB: reply.WeightB,
		})
	},
}

type weightsCmdResponse struct {
	AssetA  asset.Asset `json:"assetA"`
	AssetB  asset.Asset `json:"assetB"`
	WeightA uint64      `json:"weightA"`
	WeightB uint64      `json:"weightB"`
}

func (r weightsCmdResponse) String() string {
	one := decimal.NewFromBigInt(new(big.Int).SetUint64(consts.WeightOne), 0)
	wa := decimal.NewFromBigInt(new(big.Int).SetUint64(r.WeightA), 0).Div(one)
	wb := decimal.NewFromBigInt(new(big.Int).SetUint64(r.WeightB), 0).Div(one)
	return fmt.Sprintf("%s: %s\n%s: %s", r.AssetA, wa.StringFixed(6), r.AssetB, wb.StringFixed(6))
}

func init() {
	rootCmd.AddCommand(weightsCmd)
	weightsCmd.Flags().Int64("at", 0, "Timestamp in ms to evaluate at (0 is now)")
}
