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

var _ chain.Action = (*WithdrawCustody)(nil)

// WithdrawCustody moves native or underlying-asset balance out of vault
// custody. Only the vault admin may withdraw. The action works in every
// vault status so funds are never stranded in a paused vault.
type WithdrawCustody struct {
	Vault  codec.Address `json:"vault"`
	To     codec.Address `json:"to"`
	Asset  ids.ID        `json:"asset"`
	Amount uint64        `json:"amount"`
}

func (*WithdrawCustody) GetTypeID() uint8 {
	return withdrawCustodyID
}

func (w *WithdrawCustody) StateKeys(_ codec.Address, _ ids.ID) state.Keys {
	return state.Keys{
		string(storage.VaultKey(w.Vault)):            state.Read,
		string(storage.BalanceKey(w.Vault, w.Asset)): state.Read | state.Write,
		string(storage.BalanceKey(w.To, w.Asset)):    state.All,
	}
}

func (*WithdrawCustody) StateKeysMaxChunks() []uint16 {
	return []uint16{
		storage.VaultChunks,
		storage.BalanceChunks,
		storage.BalanceChunks,
	}
}

func (w *WithdrawCustody) Execute(
	ctx context.Context,
	_ chain.Rules,
	mu state.Mutable,
	_ int64,
	actor codec.Address,
	_ ids.ID,
) ([][]byte, error) {
	vault, exists, err := storage.GetVault(ctx, mu, w.Vault)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrOutputVaultMissing
	}
	if actor != vault.Admin {
		return nil, ErrOutputNotVaultAdmin
	}
	if w.Amount == 0 {
		return nil, ErrOutputValueZero
	}
	custody, err := storage.GetBalance(ctx, mu, w.Vault, w.Asset)
	if err != nil {
		return nil, err
	}
	if custody < w.Amount {
		return nil, ErrOutputInsufficientCustody
	}
	if err := storage.SubBalance(ctx, mu, w.Vault, w.Asset, w.Amount); err != nil {
		return nil, err
	}
	if err := storage.AddBalance(ctx, mu, w.To, w.Asset, w.Amount, true); err != nil {
		return nil, err
	}
	return nil, nil
}

func (*WithdrawCustody) ComputeUnits(chain.Rules) uint64 {
	return WithdrawCustodyComputeUnits
}

func (*WithdrawCustody) Size() int {
	return codec.AddressLen*2 + consts.IDLen + consts.Uint64Len
}

func (w *WithdrawCustody) Marshal(p *codec.Packer) {
	p.PackAddress(w.Vault)
	p.PackAddress(w.To)
	p.PackID(w.Asset)
	p.PackUint64(w.Amount)
}

func UnmarshalWithdrawCustody(p *codec.Packer) (chain.Action, error) {
	var withdraw WithdrawCustody
	p.UnpackAddress(&withdraw.Vault)
	p.UnpackAddress(&withdraw.To)
	p.UnpackID(false, &withdraw.Asset) // empty ID is the native asset
	withdraw.Amount = p.UnpackUint64(true)
	return &withdraw, p.Err()
}

func (*WithdrawCustody) ValidRange(chain.Rules) (int64, int64) {
	// Returning -1, -1 means that the action is always valid.
	return -1, -1
}
