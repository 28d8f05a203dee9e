// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package genesis

import (
	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/lbpvm/chain"
	"github.com/ava-labs/lbpvm/liquidity"
	"github.com/ava-labs/lbpvm/pool"
)

var (
	_ chain.Rules       = (*Rules)(nil)
	_ chain.RuleFactory = (*ImmutableRuleFactory)(nil)
)

type Rules struct {
	NetworkID uint32 `json:"networkID"`
	ChainID   ids.ID `json:"chainID"`

	// Shares minted by the first deposit into an empty pool.
	InitialShares uint64           `json:"initialShares"`
	DepositPolicy liquidity.Policy `json:"depositPolicy"`

	BaseComputeUnits uint64 `json:"baseUnits"`
}

func NewDefaultRules() *Rules {
	params := pool.DefaultParams()
	return &Rules{
		InitialShares:    params.InitialShares,
		DepositPolicy:    params.DepositPolicy,
		BaseComputeUnits: 1,
	}
}

func (r *Rules) GetNetworkID() uint32 {
	return r.NetworkID
}

func (r *Rules) GetChainID() ids.ID {
	return r.ChainID
}

func (r *Rules) GetInitialShares() uint64 {
	return r.InitialShares
}

func (r *Rules) GetDepositPolicy() liquidity.Policy {
	return r.DepositPolicy
}

func (r *Rules) GetBaseComputeUnits() uint64 {
	return r.BaseComputeUnits
}

func (*Rules) FetchCustom(string) (any, bool) {
	return nil, false
}

type ImmutableRuleFactory struct {
	Rules chain.Rules
}

func (i *ImmutableRuleFactory) GetRules(_ int64) chain.Rules {
	return i.Rules
}
