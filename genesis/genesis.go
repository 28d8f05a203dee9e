// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package genesis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/trace"

	"github.com/ava-labs/lbpvm/asset"
	"github.com/ava-labs/lbpvm/codec"
	"github.com/ava-labs/lbpvm/liquidity"
	"github.com/ava-labs/lbpvm/state"

	smath "github.com/ava-labs/avalanchego/utils/math"
)

var ErrInvalidRules = errors.New("invalid genesis rules")

// BalanceHandler credits genesis allocations.
type BalanceHandler interface {
	Mint(ctx context.Context, mu state.Mutable, a asset.Asset, to codec.Address, amount uint64) error
}

type CustomAllocation struct {
	Address codec.Address `json:"address"`
	Asset   asset.Asset   `json:"asset"`
	Balance uint64        `json:"balance"`
}

type Genesis struct {
	CustomAllocation []*CustomAllocation `json:"customAllocation"`
	Rules            *Rules              `json:"initialRules"`
}

func NewDefaultGenesis(customAllocations []*CustomAllocation) *Genesis {
	return &Genesis{
		CustomAllocation: customAllocations,
		Rules:            NewDefaultRules(),
	}
}

func (g *Genesis) InitializeState(ctx context.Context, tracer trace.Tracer, mu state.Mutable, bank BalanceHandler) error {
	ctx, span := tracer.Start(ctx, "Genesis.InitializeState")
	defer span.End()

	supply := make(map[asset.Asset]uint64)
	for _, alloc := range g.CustomAllocation {
		if err := alloc.Asset.Verify(); err != nil {
			return fmt.Errorf("%w: addr=%s", err, alloc.Address)
		}
		next, err := smath.Add(supply[alloc.Asset], alloc.Balance)
		if err != nil {
			return fmt.Errorf("%w: supply of %s", err, alloc.Asset)
		}
		supply[alloc.Asset] = next
		if err := bank.Mint(ctx, mu, alloc.Asset, alloc.Address, alloc.Balance); err != nil {
			return fmt.Errorf("%w: addr=%s, asset=%s, bal=%d", err, alloc.Address, alloc.Asset, alloc.Balance)
		}
	}
	return nil
}

// Load parses [genesisBytes] and binds the rules to the chain it is loaded
// for. Fields missing from the JSON keep their defaults.
func Load(genesisBytes []byte, networkID uint32, chainID ids.ID) (*Genesis, *ImmutableRuleFactory, error) {
	g := NewDefaultGenesis(nil)
	if err := json.Unmarshal(genesisBytes, g); err != nil {
		return nil, nil, err
	}
	if g.Rules == nil {
		g.Rules = NewDefaultRules()
	}
	if g.Rules.InitialShares == 0 {
		return nil, nil, fmt.Errorf("%w: initial shares must be positive", ErrInvalidRules)
	}
	if g.Rules.DepositPolicy != liquidity.Strict && g.Rules.DepositPolicy != liquidity.Refund {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidRules, liquidity.ErrInvalidPolicy)
	}
	g.Rules.NetworkID = networkID
	g.Rules.ChainID = chainID

	return g, &ImmutableRuleFactory{g.Rules}, nil
}
