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

var _ chain.Action = (*CreateVault)(nil)

// CreateVault registers a new fund under the factory. [Index] must match the
// factory's current vault count; a stale index fails cleanly and the client
// retries against the refreshed count. [FeeRecipient] must match the factory
// record so the creation fee's destination can be declared as a state key.
type CreateVault struct {
	Index            uint32               `json:"index"`
	Name             []byte               `json:"name"`
	Symbol           []byte               `json:"symbol"`
	ManagementFeeBps uint16               `json:"managementFeeBps"`
	Assets           []storage.VaultAsset `json:"assets"`
	FeeRecipient     codec.Address        `json:"feeRecipient"`
}

func (*CreateVault) GetTypeID() uint8 {
	return createVaultID
}

func (c *CreateVault) StateKeys(actor codec.Address, _ ids.ID) state.Keys {
	vaultAddress := storage.VaultAddress(c.Index)
	return state.Keys{
		string(storage.FactoryKey()):                          state.Read | state.Write,
		string(storage.VaultKey(vaultAddress)):                state.Allocate | state.Write,
		string(storage.ShareKey(vaultAddress, vaultAddress)):  state.Allocate | state.Write,
		string(storage.BalanceKey(actor, ids.Empty)):          state.Read | state.Write,
		string(storage.BalanceKey(c.FeeRecipient, ids.Empty)): state.All,
	}
}

func (*CreateVault) StateKeysMaxChunks() []uint16 {
	return []uint16{
		storage.FactoryChunks,
		storage.VaultChunks,
		storage.ShareChunks,
		storage.BalanceChunks,
		storage.BalanceChunks,
	}
}

func (c *CreateVault) Execute(
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
	if factory.Status != storage.FactoryActive {
		return nil, ErrOutputFactoryNotActive
	}
	if c.FeeRecipient != factory.FeeRecipient {
		return nil, ErrOutputWrongFeeRecipient
	}
	if c.Index != factory.VaultCount {
		return nil, ErrOutputWrongIndex
	}
	if len(c.Name) == 0 {
		return nil, ErrOutputNameEmpty
	}
	if len(c.Name) > MaxVaultNameSize {
		return nil, ErrOutputNameTooLarge
	}
	if len(c.Symbol) == 0 {
		return nil, ErrOutputVaultSymbolEmpty
	}
	if len(c.Symbol) > MaxVaultSymbolSize {
		return nil, ErrOutputVaultSymbolTooLarge
	}
	if c.ManagementFeeBps < factory.MinManagementFeeBps ||
		c.ManagementFeeBps > factory.MaxManagementFeeBps {
		return nil, ErrOutputManagementFeeOutOfRange
	}
	if len(c.Assets) < MinVaultAssets {
		return nil, ErrOutputNoAssets
	}
	if len(c.Assets) > MaxVaultAssets {
		return nil, ErrOutputTooManyAssets
	}
	seen := make(map[ids.ID]struct{}, len(c.Assets))
	totalBps := uint32(0)
	for _, asset := range c.Assets {
		if asset.AllocationBps == 0 {
			return nil, ErrOutputInvalidAllocation
		}
		if _, ok := seen[asset.Asset]; ok {
			return nil, ErrOutputDuplicateAsset
		}
		seen[asset.Asset] = struct{}{}
		totalBps += uint32(asset.AllocationBps)
	}
	if totalBps != pricing.MaxBPS {
		return nil, ErrOutputInvalidAllocation
	}

	// Charge the creation fee before any record is written.
	if factory.CreationFee > 0 {
		if err := storage.SubBalance(ctx, mu, actor, ids.Empty, factory.CreationFee); err != nil {
			return nil, err
		}
		if err := storage.AddBalance(ctx, mu, factory.FeeRecipient, ids.Empty, factory.CreationFee, true); err != nil {
			return nil, err
		}
	}

	now := timestamp / millisecondsPerSecond
	vaultAddress := storage.VaultAddress(c.Index)
	vault := &storage.Vault{
		Index:            c.Index,
		Admin:            actor,
		Name:             c.Name,
		Symbol:           c.Symbol,
		ManagementFeeBps: c.ManagementFeeBps,
		Status:           storage.VaultActive,
		TotalAssets:      0,
		TotalSupply:      SeedShares,
		CreatedAt:        now,
		LastAccrual:      now,
		AccruedFees:      0,
		Assets:           c.Assets,
	}
	if err := storage.SetVault(ctx, mu, vaultAddress, vault); err != nil {
		return nil, err
	}
	// The seed mint parks the minimum supply on the vault itself.
	if err := storage.AddShares(ctx, mu, vaultAddress, vaultAddress, SeedShares); err != nil {
		return nil, err
	}
	newCount, err := smath.Add64(uint64(factory.VaultCount), 1)
	if err != nil {
		return nil, err
	}
	factory.VaultCount = uint32(newCount)
	if err := storage.SetFactory(ctx, mu, factory); err != nil {
		return nil, err
	}
	return [][]byte{vaultAddress[:]}, nil
}

func (*CreateVault) ComputeUnits(chain.Rules) uint64 {
	return CreateVaultComputeUnits
}

func (c *CreateVault) Size() int {
	return consts.IntLen + codec.BytesLen(c.Name) + codec.BytesLen(c.Symbol) +
		consts.IntLen + consts.IntLen +
		len(c.Assets)*(consts.IDLen+consts.IntLen) +
		codec.AddressLen
}

func (c *CreateVault) Marshal(p *codec.Packer) {
	p.PackInt(int(c.Index))
	p.PackBytes(c.Name)
	p.PackBytes(c.Symbol)
	p.PackInt(int(c.ManagementFeeBps))
	p.PackInt(len(c.Assets))
	for _, asset := range c.Assets {
		p.PackID(asset.Asset)
		p.PackInt(int(asset.AllocationBps))
	}
	p.PackAddress(c.FeeRecipient)
}

func UnmarshalCreateVault(p *codec.Packer) (chain.Action, error) {
	var create CreateVault
	create.Index = uint32(p.UnpackInt(false))
	p.UnpackBytes(MaxVaultNameSize, true, &create.Name)
	p.UnpackBytes(MaxVaultSymbolSize, true, &create.Symbol)
	create.ManagementFeeBps = uint16(p.UnpackInt(false))
	count := p.UnpackInt(true)
	if count > MaxVaultAssets {
		return nil, ErrOutputTooManyAssets
	}
	create.Assets = make([]storage.VaultAsset, 0, count)
	for i := 0; i < count; i++ {
		var asset storage.VaultAsset
		p.UnpackID(true, &asset.Asset)
		asset.AllocationBps = uint16(p.UnpackInt(true))
		create.Assets = append(create.Assets, asset)
	}
	p.UnpackAddress(&create.FeeRecipient)
	return &create, p.Err()
}

func (*CreateVault) ValidRange(chain.Rules) (int64, int64) {
	// Returning -1, -1 means that the action is always valid.
	return -1, -1
}
