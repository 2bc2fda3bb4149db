// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"

	"github.com/ava-labs/avalanchego/ids"
	smath "github.com/ava-labs/avalanchego/utils/math"

	"github.com/ava-labs/hypersdk/chain"
	"github.com/ava-labs/hypersdk/codec"
	"github.com/ava-labs/hypersdk/consts"
	"github.com/ava-labs/hypersdk/state"

	"github.com/ava-labs/fundvm/pricing"
	"github.com/ava-labs/fundvm/storage"
)

var _ chain.Action = (*Deposit)(nil)

// Deposit moves native value into a vault's custody and mints shares to the
// actor at [SharePrice]. Management fees accrue before any deposit math so
// entrants never absorb fees earned ahead of them.
type Deposit struct {
	Vault codec.Address `json:"vault"`

	// Amount of native token to deposit, gross of the entry fee.
	Amount uint64 `json:"amount"`

	// SharePrice in native base units per whole share. Zero applies the
	// first-deposit 1:1 fallback.
	SharePrice uint64 `json:"sharePrice"`

	// FeeRecipient must match the factory record.
	FeeRecipient codec.Address `json:"feeRecipient"`
}

func (*Deposit) GetTypeID() uint8 {
	return depositID
}

func (d *Deposit) StateKeys(actor codec.Address, _ ids.ID) state.Keys {
	return state.Keys{
		string(storage.FactoryKey()):                          state.Read,
		string(storage.VaultKey(d.Vault)):                     state.Read | state.Write,
		string(storage.BalanceKey(actor, ids.Empty)):          state.Read | state.Write,
		string(storage.BalanceKey(d.Vault, ids.Empty)):        state.All,
		string(storage.BalanceKey(d.FeeRecipient, ids.Empty)): state.All,
		string(storage.ShareKey(d.Vault, actor)):              state.All,
	}
}

func (*Deposit) StateKeysMaxChunks() []uint16 {
	return []uint16{
		storage.FactoryChunks,
		storage.VaultChunks,
		storage.BalanceChunks,
		storage.BalanceChunks,
		storage.BalanceChunks,
		storage.ShareChunks,
	}
}

func (d *Deposit) Execute(
	ctx context.Context,
	_ chain.Rules,
	mu state.Mutable,
	timestamp int64,
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
	vault, exists, err := storage.GetVault(ctx, mu, d.Vault)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrOutputVaultMissing
	}
	if d.FeeRecipient != factory.FeeRecipient {
		return nil, ErrOutputWrongFeeRecipient
	}
	if factory.Status != storage.FactoryActive {
		return nil, ErrOutputFactoryNotActive
	}
	if vault.Status != storage.VaultActive {
		return nil, ErrOutputVaultNotActive
	}
	if d.Amount == 0 {
		return nil, ErrOutputValueZero
	}

	if _, err := vault.Accrue(timestamp / millisecondsPerSecond); err != nil {
		return nil, err
	}

	entryFee, err := pricing.BpsFee(d.Amount, factory.EntryFeeBps)
	if err != nil {
		return nil, err
	}
	net := d.Amount - entryFee
	shares, err := pricing.SharesForDeposit(net, d.SharePrice, pricing.PriceScale)
	if err != nil {
		return nil, err
	}
	if shares == 0 {
		return nil, ErrOutputZeroShares
	}

	if err := storage.SubBalance(ctx, mu, actor, ids.Empty, d.Amount); err != nil {
		return nil, err
	}
	if entryFee > 0 {
		if err := storage.AddBalance(ctx, mu, factory.FeeRecipient, ids.Empty, entryFee, true); err != nil {
			return nil, err
		}
	}
	if err := storage.AddBalance(ctx, mu, d.Vault, ids.Empty, net, true); err != nil {
		return nil, err
	}
	if err := storage.AddShares(ctx, mu, d.Vault, actor, shares); err != nil {
		return nil, err
	}

	newAssets, err := smath.Add64(vault.TotalAssets, net)
	if err != nil {
		return nil, err
	}
	newSupply, err := smath.Add64(vault.TotalSupply, shares)
	if err != nil {
		return nil, err
	}
	vault.TotalAssets = newAssets
	vault.TotalSupply = newSupply
	if err := storage.SetVault(ctx, mu, d.Vault, vault); err != nil {
		return nil, err
	}
	return [][]byte{packUint64(entryFee), packUint64(shares)}, nil
}

func (*Deposit) ComputeUnits(chain.Rules) uint64 {
	return DepositComputeUnits
}

func (*Deposit) Size() int {
	return codec.AddressLen + consts.Uint64Len*2 + codec.AddressLen
}

func (d *Deposit) Marshal(p *codec.Packer) {
	p.PackAddress(d.Vault)
	p.PackUint64(d.Amount)
	p.PackUint64(d.SharePrice)
	p.PackAddress(d.FeeRecipient)
}

func UnmarshalDeposit(p *codec.Packer) (chain.Action, error) {
	var deposit Deposit
	p.UnpackAddress(&deposit.Vault)
	deposit.Amount = p.UnpackUint64(true)
	deposit.SharePrice = p.UnpackUint64(false)
	p.UnpackAddress(&deposit.FeeRecipient)
	return &deposit, p.Err()
}

func (*Deposit) ValidRange(chain.Rules) (int64, int64) {
	// Returning -1, -1 means that the action is always valid.
	return -1, -1
}
