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

var _ chain.Action = (*Redeem)(nil)

// Redeem burns the actor's shares and pays out of vault custody at
// [SharePrice]. The exit fee comes out of gross proceeds; custody must hold
// the full gross amount or the redemption fails before anything moves.
type Redeem struct {
	Vault codec.Address `json:"vault"`

	// Shares to burn.
	Shares uint64 `json:"shares"`

	// SharePrice in native base units per whole share.
	SharePrice uint64 `json:"sharePrice"`

	// FeeRecipient must match the factory record.
	FeeRecipient codec.Address `json:"feeRecipient"`
}

func (*Redeem) GetTypeID() uint8 {
	return redeemID
}

func (r *Redeem) StateKeys(actor codec.Address, _ ids.ID) state.Keys {
	return state.Keys{
		string(storage.FactoryKey()):                          state.Read,
		string(storage.VaultKey(r.Vault)):                     state.Read | state.Write,
		string(storage.ShareKey(r.Vault, actor)):              state.Read | state.Write,
		string(storage.BalanceKey(r.Vault, ids.Empty)):        state.Read | state.Write,
		string(storage.BalanceKey(actor, ids.Empty)):          state.All,
		string(storage.BalanceKey(r.FeeRecipient, ids.Empty)): state.All,
	}
}

func (*Redeem) StateKeysMaxChunks() []uint16 {
	return []uint16{
		storage.FactoryChunks,
		storage.VaultChunks,
		storage.ShareChunks,
		storage.BalanceChunks,
		storage.BalanceChunks,
		storage.BalanceChunks,
	}
}

func (r *Redeem) Execute(
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
	vault, exists, err := storage.GetVault(ctx, mu, r.Vault)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrOutputVaultMissing
	}
	if r.FeeRecipient != factory.FeeRecipient {
		return nil, ErrOutputWrongFeeRecipient
	}
	if factory.Status != storage.FactoryActive {
		return nil, ErrOutputFactoryNotActive
	}
	if vault.Status != storage.VaultActive {
		return nil, ErrOutputVaultNotActive
	}
	if r.Shares == 0 {
		return nil, ErrOutputValueZero
	}
	balance, err := storage.GetShareBalance(ctx, mu, r.Vault, actor)
	if err != nil {
		return nil, err
	}
	if balance < r.Shares {
		return nil, ErrOutputInsufficientShares
	}
	if vault.TotalSupply == 0 {
		return nil, ErrOutputNoSharesOutstanding
	}

	if _, err := vault.Accrue(timestamp / millisecondsPerSecond); err != nil {
		return nil, err
	}

	gross, err := pricing.ProceedsForShares(r.Shares, r.SharePrice, pricing.PriceScale)
	if err != nil {
		return nil, err
	}
	if gross == 0 {
		return nil, ErrOutputValueZero
	}
	custody, err := storage.GetBalance(ctx, mu, r.Vault, ids.Empty)
	if err != nil {
		return nil, err
	}
	if custody < gross {
		return nil, ErrOutputInsufficientCustody
	}
	exitFee, err := pricing.BpsFee(gross, factory.ExitFeeBps)
	if err != nil {
		return nil, err
	}
	net := gross - exitFee

	if err := storage.SubShares(ctx, mu, r.Vault, actor, r.Shares); err != nil {
		return nil, err
	}
	if err := storage.SubBalance(ctx, mu, r.Vault, ids.Empty, gross); err != nil {
		return nil, err
	}
	if exitFee > 0 {
		if err := storage.AddBalance(ctx, mu, factory.FeeRecipient, ids.Empty, exitFee, true); err != nil {
			return nil, err
		}
	}
	if err := storage.AddBalance(ctx, mu, actor, ids.Empty, net, true); err != nil {
		return nil, err
	}

	newSupply, err := smath.Sub(vault.TotalSupply, r.Shares)
	if err != nil {
		return nil, ErrOutputInsufficientShares
	}
	vault.TotalSupply = newSupply
	// totalAssets clamps at zero, matching accrual.
	if gross > vault.TotalAssets {
		vault.TotalAssets = 0
	} else {
		vault.TotalAssets -= gross
	}
	if err := storage.SetVault(ctx, mu, r.Vault, vault); err != nil {
		return nil, err
	}
	return [][]byte{packUint64(gross), packUint64(exitFee), packUint64(net)}, nil
}

func (*Redeem) ComputeUnits(chain.Rules) uint64 {
	return RedeemComputeUnits
}

func (*Redeem) Size() int {
	return codec.AddressLen + consts.Uint64Len*2 + codec.AddressLen
}

func (r *Redeem) Marshal(p *codec.Packer) {
	p.PackAddress(r.Vault)
	p.PackUint64(r.Shares)
	p.PackUint64(r.SharePrice)
	p.PackAddress(r.FeeRecipient)
}

func UnmarshalRedeem(p *codec.Packer) (chain.Action, error) {
	var redeem Redeem
	p.UnpackAddress(&redeem.Vault)
	redeem.Shares = p.UnpackUint64(true)
	redeem.SharePrice = p.UnpackUint64(false)
	p.UnpackAddress(&redeem.FeeRecipient)
	return &redeem, p.Err()
}

func (*Redeem) ValidRange(chain.Rules) (int64, int64) {
	// Returning -1, -1 means that the action is always valid.
	return -1, -1
}
