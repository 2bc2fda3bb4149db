// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/hypersdk/chain"
	"github.com/ava-labs/hypersdk/codec"
	"github.com/ava-labs/hypersdk/state"

	"github.com/ava-labs/fundvm/pricing"
	"github.com/ava-labs/fundvm/storage"
)

var _ chain.Action = (*CollectFees)(nil)

// CollectFees settles a vault's accrued management fees in native token:
// the creator's split goes to the vault admin, the platform's to the factory
// fee recipient, both out of vault custody. Anyone may trigger collection.
// [Creator] and [FeeRecipient] must match the stored records.
type CollectFees struct {
	Vault        codec.Address `json:"vault"`
	Creator      codec.Address `json:"creator"`
	FeeRecipient codec.Address `json:"feeRecipient"`
}

func (*CollectFees) GetTypeID() uint8 {
	return collectFeesID
}

func (c *CollectFees) StateKeys(_ codec.Address, _ ids.ID) state.Keys {
	return state.Keys{
		string(storage.FactoryKey()):                          state.Read,
		string(storage.VaultKey(c.Vault)):                     state.Read | state.Write,
		string(storage.BalanceKey(c.Vault, ids.Empty)):        state.Read | state.Write,
		string(storage.BalanceKey(c.Creator, ids.Empty)):      state.All,
		string(storage.BalanceKey(c.FeeRecipient, ids.Empty)): state.All,
	}
}

func (*CollectFees) StateKeysMaxChunks() []uint16 {
	return []uint16{
		storage.FactoryChunks,
		storage.VaultChunks,
		storage.BalanceChunks,
		storage.BalanceChunks,
		storage.BalanceChunks,
	}
}

func (c *CollectFees) Execute(
	ctx context.Context,
	_ chain.Rules,
	mu state.Mutable,
	timestamp int64,
	_ codec.Address,
	_ ids.ID,
) ([][]byte, error) {
	factory, exists, err := storage.GetFactory(ctx, mu)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrOutputFactoryMissing
	}
	vault, exists, err := storage.GetVault(ctx, mu, c.Vault)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrOutputVaultMissing
	}
	if c.Creator != vault.Admin {
		return nil, ErrOutputWrongCreator
	}
	if c.FeeRecipient != factory.FeeRecipient {
		return nil, ErrOutputWrongFeeRecipient
	}

	if _, err := vault.Accrue(timestamp / millisecondsPerSecond); err != nil {
		return nil, err
	}

	amount := vault.AccruedFees
	if amount == 0 {
		// Nothing owed; the accrual clock still advances.
		if err := storage.SetVault(ctx, mu, c.Vault, vault); err != nil {
			return nil, err
		}
		return [][]byte{packUint64(0), packUint64(0)}, nil
	}
	custody, err := storage.GetBalance(ctx, mu, c.Vault, ids.Empty)
	if err != nil {
		return nil, err
	}
	if custody < amount {
		return nil, ErrOutputInsufficientCustody
	}
	creatorPart, platformPart, err := pricing.Split(amount, factory.CreatorFeeRatioBps)
	if err != nil {
		return nil, err
	}

	if err := storage.SubBalance(ctx, mu, c.Vault, ids.Empty, amount); err != nil {
		return nil, err
	}
	if creatorPart > 0 {
		if err := storage.AddBalance(ctx, mu, vault.Admin, ids.Empty, creatorPart, true); err != nil {
			return nil, err
		}
	}
	if platformPart > 0 {
		if err := storage.AddBalance(ctx, mu, factory.FeeRecipient, ids.Empty, platformPart, true); err != nil {
			return nil, err
		}
	}
	vault.AccruedFees = 0
	if err := storage.SetVault(ctx, mu, c.Vault, vault); err != nil {
		return nil, err
	}
	return [][]byte{packUint64(creatorPart), packUint64(platformPart)}, nil
}

func (*CollectFees) ComputeUnits(chain.Rules) uint64 {
	return CollectFeesComputeUnits
}

func (*CollectFees) Size() int {
	return codec.AddressLen * 3
}

func (c *CollectFees) Marshal(p *codec.Packer) {
	p.PackAddress(c.Vault)
	p.PackAddress(c.Creator)
	p.PackAddress(c.FeeRecipient)
}

func UnmarshalCollectFees(p *codec.Packer) (chain.Action, error) {
	var collect CollectFees
	p.UnpackAddress(&collect.Vault)
	p.UnpackAddress(&collect.Creator)
	p.UnpackAddress(&collect.FeeRecipient)
	return &collect, p.Err()
}

func (*CollectFees) ValidRange(chain.Rules) (int64, int64) {
	// Returning -1, -1 means that the action is always valid.
	return -1, -1
}
