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

var _ chain.Action = (*DistributeFees)(nil)

// DistributeFees converts accrued management fees into newly minted shares
// for the creator and the platform instead of paying custody out. [Amount]
// zero distributes everything accrued; amounts above the accrued balance
// are capped to it. An empty vault is a successful no-op.
type DistributeFees struct {
	Vault codec.Address `json:"vault"`

	// SharePrice in native base units per whole share. Zero mints 1:1.
	SharePrice uint64 `json:"sharePrice"`

	// Amount of accrued fee value to distribute. Zero means all.
	Amount uint64 `json:"amount"`

	// Creator and FeeRecipient must match the stored records.
	Creator      codec.Address `json:"creator"`
	FeeRecipient codec.Address `json:"feeRecipient"`
}

func (*DistributeFees) GetTypeID() uint8 {
	return distributeFeesID
}

func (d *DistributeFees) StateKeys(_ codec.Address, _ ids.ID) state.Keys {
	return state.Keys{
		string(storage.FactoryKey()):                      state.Read,
		string(storage.VaultKey(d.Vault)):                 state.Read | state.Write,
		string(storage.ShareKey(d.Vault, d.Creator)):      state.All,
		string(storage.ShareKey(d.Vault, d.FeeRecipient)): state.All,
	}
}

func (*DistributeFees) StateKeysMaxChunks() []uint16 {
	return []uint16{
		storage.FactoryChunks,
		storage.VaultChunks,
		storage.ShareChunks,
		storage.ShareChunks,
	}
}

func (d *DistributeFees) Execute(
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
	if d.Creator != vault.Admin {
		return nil, ErrOutputWrongCreator
	}
	if d.FeeRecipient != factory.FeeRecipient {
		return nil, ErrOutputWrongFeeRecipient
	}
	if actor != vault.Admin && actor != factory.Admin {
		return nil, ErrOutputNotVaultAdmin
	}

	if _, err := vault.Accrue(timestamp / millisecondsPerSecond); err != nil {
		return nil, err
	}

	amount := d.Amount
	if amount == 0 || amount > vault.AccruedFees {
		amount = vault.AccruedFees
	}
	if amount == 0 || vault.TotalSupply == 0 || vault.TotalAssets == 0 {
		// Nothing distributable; the accrual clock still advances.
		if err := storage.SetVault(ctx, mu, d.Vault, vault); err != nil {
			return nil, err
		}
		return [][]byte{packUint64(0), packUint64(0)}, nil
	}

	creatorShares, platformShares, err := distributeShares(
		ctx, mu, d.Vault, vault, factory, amount, d.SharePrice,
	)
	if err != nil {
		return nil, err
	}
	return [][]byte{packUint64(creatorShares), packUint64(platformShares)}, nil
}

// distributeShares mints the fee split as shares at [sharePrice], removes
// [amount] from the accrued balance, and persists the vault. Shared by
// DistributeFees and ClaimFees.
func distributeShares(
	ctx context.Context,
	mu state.Mutable,
	vaultAddress codec.Address,
	vault *storage.Vault,
	factory *storage.Factory,
	amount uint64,
	sharePrice uint64,
) (uint64, uint64, error) {
	creatorPart, platformPart, err := pricing.Split(amount, factory.CreatorFeeRatioBps)
	if err != nil {
		return 0, 0, err
	}
	creatorShares, err := pricing.SharesForDeposit(creatorPart, sharePrice, pricing.PriceScale)
	if err != nil {
		return 0, 0, err
	}
	platformShares, err := pricing.SharesForDeposit(platformPart, sharePrice, pricing.PriceScale)
	if err != nil {
		return 0, 0, err
	}
	if creatorShares > 0 {
		if err := storage.AddShares(ctx, mu, vaultAddress, vault.Admin, creatorShares); err != nil {
			return 0, 0, err
		}
	}
	if platformShares > 0 {
		if err := storage.AddShares(ctx, mu, vaultAddress, factory.FeeRecipient, platformShares); err != nil {
			return 0, 0, err
		}
	}
	minted, err := smath.Add64(creatorShares, platformShares)
	if err != nil {
		return 0, 0, err
	}
	newSupply, err := smath.Add64(vault.TotalSupply, minted)
	if err != nil {
		return 0, 0, err
	}
	vault.TotalSupply = newSupply
	vault.AccruedFees -= amount
	if err := storage.SetVault(ctx, mu, vaultAddress, vault); err != nil {
		return 0, 0, err
	}
	return creatorShares, platformShares, nil
}

func (*DistributeFees) ComputeUnits(chain.Rules) uint64 {
	return DistributeFeesComputeUnits
}

func (*DistributeFees) Size() int {
	return codec.AddressLen + consts.Uint64Len*2 + codec.AddressLen*2
}

func (d *DistributeFees) Marshal(p *codec.Packer) {
	p.PackAddress(d.Vault)
	p.PackUint64(d.SharePrice)
	p.PackUint64(d.Amount)
	p.PackAddress(d.Creator)
	p.PackAddress(d.FeeRecipient)
}

func UnmarshalDistributeFees(p *codec.Packer) (chain.Action, error) {
	var distribute DistributeFees
	p.UnpackAddress(&distribute.Vault)
	distribute.SharePrice = p.UnpackUint64(false)
	distribute.Amount = p.UnpackUint64(false)
	p.UnpackAddress(&distribute.Creator)
	p.UnpackAddress(&distribute.FeeRecipient)
	return &distribute, p.Err()
}

func (*DistributeFees) ValidRange(chain.Rules) (int64, int64) {
	// Returning -1, -1 means that the action is always valid.
	return -1, -1
}
