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

var _ chain.Action = (*ClaimFees)(nil)

// ClaimFees lets the vault creator distribute every accrued fee as shares.
// It is DistributeFees restricted to the creator with Amount fixed to the
// full accrued balance.
type ClaimFees struct {
	Vault codec.Address `json:"vault"`

	// SharePrice in native base units per whole share. Zero mints 1:1.
	SharePrice uint64 `json:"sharePrice"`

	// FeeRecipient must match the factory record.
	FeeRecipient codec.Address `json:"feeRecipient"`
}

func (*ClaimFees) GetTypeID() uint8 {
	return claimFeesID
}

func (c *ClaimFees) StateKeys(actor codec.Address, _ ids.ID) state.Keys {
	return state.Keys{
		string(storage.FactoryKey()):                      state.Read,
		string(storage.VaultKey(c.Vault)):                 state.Read | state.Write,
		string(storage.ShareKey(c.Vault, actor)):          state.All,
		string(storage.ShareKey(c.Vault, c.FeeRecipient)): state.All,
	}
}

func (*ClaimFees) StateKeysMaxChunks() []uint16 {
	return []uint16{
		storage.FactoryChunks,
		storage.VaultChunks,
		storage.ShareChunks,
		storage.ShareChunks,
	}
}

func (c *ClaimFees) Execute(
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
	vault, exists, err := storage.GetVault(ctx, mu, c.Vault)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrOutputVaultMissing
	}
	if actor != vault.Admin {
		return nil, ErrOutputNotVaultAdmin
	}
	if c.FeeRecipient != factory.FeeRecipient {
		return nil, ErrOutputWrongFeeRecipient
	}

	if _, err := vault.Accrue(timestamp / millisecondsPerSecond); err != nil {
		return nil, err
	}

	amount := vault.AccruedFees
	if amount == 0 || vault.TotalSupply == 0 || vault.TotalAssets == 0 {
		// Nothing claimable; the accrual clock still advances.
		if err := storage.SetVault(ctx, mu, c.Vault, vault); err != nil {
			return nil, err
		}
		return [][]byte{packUint64(0), packUint64(0)}, nil
	}

	creatorShares, platformShares, err := distributeShares(
		ctx, mu, c.Vault, vault, factory, amount, c.SharePrice,
	)
	if err != nil {
		return nil, err
	}
	return [][]byte{packUint64(creatorShares), packUint64(platformShares)}, nil
}

func (*ClaimFees) ComputeUnits(chain.Rules) uint64 {
	return ClaimFeesComputeUnits
}

func (*ClaimFees) Size() int {
	return codec.AddressLen + consts.Uint64Len + codec.AddressLen
}

func (c *ClaimFees) Marshal(p *codec.Packer) {
	p.PackAddress(c.Vault)
	p.PackUint64(c.SharePrice)
	p.PackAddress(c.FeeRecipient)
}

func UnmarshalClaimFees(p *codec.Packer) (chain.Action, error) {
	var claim ClaimFees
	p.UnpackAddress(&claim.Vault)
	claim.SharePrice = p.UnpackUint64(false)
	p.UnpackAddress(&claim.FeeRecipient)
	return &claim, p.Err()
}

func (*ClaimFees) ValidRange(chain.Rules) (int64, int64) {
	// Returning -1, -1 means that the action is always valid.
	return -1, -1
}
