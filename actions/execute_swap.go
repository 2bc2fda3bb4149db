// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/hypersdk/chain"
	"github.com/ava-labs/hypersdk/codec"
	"github.com/ava-labs/hypersdk/consts"
	"github.com/ava-labs/hypersdk/state"

	"github.com/ava-labs/fundvm/storage"
)

var _ chain.Action = (*ExecuteSwap)(nil)

// ExecuteSwap authorizes an external rebalancing swap against vault custody.
// It only validates: the vault must be active, the actor must be the vault
// or factory admin, and custody must cover [AmountIn]. No balances move;
// the recorded authorization is consumed off-chain by the swap executor.
type ExecuteSwap struct {
	Vault    codec.Address `json:"vault"`
	AmountIn uint64        `json:"amountIn"`
}

func (*ExecuteSwap) GetTypeID() uint8 {
	return executeSwapID
}

func (e *ExecuteSwap) StateKeys(_ codec.Address, _ ids.ID) state.Keys {
	return state.Keys{
		string(storage.FactoryKey()):                   state.Read,
		string(storage.VaultKey(e.Vault)):              state.Read,
		string(storage.BalanceKey(e.Vault, ids.Empty)): state.Read,
	}
}

func (*ExecuteSwap) StateKeysMaxChunks() []uint16 {
	return []uint16{
		storage.FactoryChunks,
		storage.VaultChunks,
		storage.BalanceChunks,
	}
}

func (e *ExecuteSwap) Execute(
	ctx context.Context,
	_ chain.Rules,
	mu state.Mutable,
	_ int64,
	actor codec.Address,
	_ ids.ID,
) ([][]byte, error) {
	factory, exists, err := storage.GetFactory(ctx, mu)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrOutputFactoryMissing
	}
	vault, exists, err := storage.GetVault(ctx, mu, e.Vault)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrOutputVaultMissing
	}
	if vault.Status != storage.VaultActive {
		return nil, ErrOutputVaultNotActive
	}
	if actor != vault.Admin && actor != factory.Admin {
		return nil, ErrOutputNotVaultAdmin
	}
	if e.AmountIn == 0 {
		return nil, ErrOutputValueZero
	}
	custody, err := storage.GetBalance(ctx, mu, e.Vault, ids.Empty)
	if err != nil {
		return nil, err
	}
	if custody < e.AmountIn {
		return nil, ErrOutputInsufficientCustody
	}
	return [][]byte{packUint64(e.AmountIn)}, nil
}

func (*ExecuteSwap) ComputeUnits(chain.Rules) uint64 {
	return ExecuteSwapComputeUnits
}

func (*ExecuteSwap) Size() int {
	return codec.AddressLen + consts.Uint64Len
}

func (e *ExecuteSwap) Marshal(p *codec.Packer) {
	p.PackAddress(e.Vault)
	p.PackUint64(e.AmountIn)
}

func UnmarshalExecuteSwap(p *codec.Packer) (chain.Action, error) {
	var swap ExecuteSwap
	p.UnpackAddress(&swap.Vault)
	swap.AmountIn = p.UnpackUint64(true)
	return &swap, p.Err()
}

func (*ExecuteSwap) ValidRange(chain.Rules) (int64, int64) {
	// Returning -1, -1 means that the action is always valid.
	return -1, -1
}
