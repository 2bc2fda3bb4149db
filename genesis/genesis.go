// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package genesis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/trace"
	smath "github.com/ava-labs/avalanchego/utils/math"
	"github.com/ava-labs/avalanchego/x/merkledb"

	"github.com/ava-labs/hypersdk/codec"
	hconsts "github.com/ava-labs/hypersdk/consts"
	"github.com/ava-labs/hypersdk/fees"
	"github.com/ava-labs/hypersdk/state"
	"github.com/ava-labs/hypersdk/vm"

	"github.com/ava-labs/fundvm/consts"
	"github.com/ava-labs/fundvm/pricing"
	"github.com/ava-labs/fundvm/storage"
	"github.com/ava-labs/fundvm/utils"
)

var _ vm.Genesis = (*Genesis)(nil)

type CustomAllocation struct {
	Address string `json:"address"` // bech32 address
	Balance uint64 `json:"balance"`
}

// FactoryPolicy seeds the factory singleton at genesis so a chain can come
// up with vault creation already enabled. An empty admin leaves the factory
// uninitialized; the first InitializeFactory then claims it.
type FactoryPolicy struct {
	Admin        string `json:"admin"`        // bech32 address
	FeeRecipient string `json:"feeRecipient"` // bech32 address, defaults to admin

	EntryFeeBps         uint16 `json:"entryFeeBps"`
	ExitFeeBps          uint16 `json:"exitFeeBps"`
	CreationFee         uint64 `json:"creationFee"`
	MinManagementFeeBps uint16 `json:"minManagementFeeBps"`
	MaxManagementFeeBps uint16 `json:"maxManagementFeeBps"`
	CreatorFeeRatioBps  uint16 `json:"creatorFeeRatioBps"`
	PlatformFeeRatioBps uint16 `json:"platformFeeRatioBps"`
}

type Genesis struct {
	// Address prefix
	HRP string `json:"hrp"`

	// State Parameters
	StateBranchFactor merkledb.BranchFactor `json:"stateBranchFactor"`

	// Chain Parameters
	MinBlockGap      int64 `json:"minBlockGap"`      // ms
	MinEmptyBlockGap int64 `json:"minEmptyBlockGap"` // ms

	// Chain Fee Parameters
	MinUnitPrice               fees.Dimensions `json:"minUnitPrice"`
	UnitPriceChangeDenominator fees.Dimensions `json:"unitPriceChangeDenominator"`
	WindowTargetUnits          fees.Dimensions `json:"windowTargetUnits"` // 10s
	MaxBlockUnits              fees.Dimensions `json:"maxBlockUnits"`     // must be possible to reach before block too large

	// Tx Parameters
	ValidityWindow int64 `json:"validityWindow"` // ms

	// Tx Fee Parameters
	BaseComputeUnits          uint64 `json:"baseUnits"`
	StorageKeyReadUnits       uint64 `json:"storageKeyReadUnits"`
	StorageValueReadUnits     uint64 `json:"storageValueReadUnits"` // per chunk
	StorageKeyAllocateUnits   uint64 `json:"storageKeyAllocateUnits"`
	StorageValueAllocateUnits uint64 `json:"storageValueAllocateUnits"` // per chunk
	StorageKeyWriteUnits      uint64 `json:"storageKeyWriteUnits"`
	StorageValueWriteUnits    uint64 `json:"storageValueWriteUnits"` // per chunk

	// Allocations
	CustomAllocation []*CustomAllocation `json:"customAllocation"`

	// Factory
	Factory FactoryPolicy `json:"factory"`
}

func Default() *Genesis {
	return &Genesis{
		HRP: consts.HRP,

		// State Parameters
		StateBranchFactor: merkledb.BranchFactor16,

		// Chain Parameters
		MinBlockGap:      100,
		MinEmptyBlockGap: 2_500,

		// Chain Fee Parameters
		MinUnitPrice:               fees.Dimensions{100, 100, 100, 100, 100},
		UnitPriceChangeDenominator: fees.Dimensions{48, 48, 48, 48, 48},
		WindowTargetUnits:          fees.Dimensions{20_000_000, 1_000, 1_000, 1_000, 1_000},
		MaxBlockUnits:              fees.Dimensions{1_800_000, 2_000, 2_000, 2_000, 2_000},

		// Tx Parameters
		ValidityWindow: 60 * hconsts.MillisecondsPerSecond, // ms

		// Tx Fee Compute Parameters
		BaseComputeUnits: 1,

		// Tx Fee Storage Parameters
		//
		// TODO: tune this
		StorageKeyReadUnits:       5,
		StorageValueReadUnits:     2,
		StorageKeyAllocateUnits:   20,
		StorageValueAllocateUnits: 5,
		StorageKeyWriteUnits:      10,
		StorageValueWriteUnits:    3,

		// Factory defaults apply when only the admin is set: 0.25% entry and
		// exit, 10 FUND per vault, management fees between 0.5% and 3%, and a
		// 70/30 creator/platform split.
		Factory: FactoryPolicy{
			EntryFeeBps:         25,
			ExitFeeBps:          25,
			CreationFee:         10_000_000,
			MinManagementFeeBps: 50,
			MaxManagementFeeBps: 300,
			CreatorFeeRatioBps:  7_000,
			PlatformFeeRatioBps: 3_000,
		},
	}
}

func New(b []byte, _ []byte /* upgradeBytes */) (*Genesis, error) {
	g := Default()
	if len(b) > 0 {
		if err := json.Unmarshal(b, g); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config %s: %w", string(b), err)
		}
	}
	return g, nil
}

func (g *Genesis) Load(ctx context.Context, tracer trace.Tracer, mu state.Mutable) error {
	ctx, span := tracer.Start(ctx, "Genesis.Load")
	defer span.End()

	if consts.HRP != g.HRP {
		return ErrInvalidHRP
	}
	if err := g.StateBranchFactor.Valid(); err != nil {
		return err
	}

	supply := uint64(0)
	for _, alloc := range g.CustomAllocation {
		addr, err := utils.ParseAddress(alloc.Address)
		if err != nil {
			return err
		}
		supply, err = smath.Add64(supply, alloc.Balance)
		if err != nil {
			return err
		}
		if err := storage.SetBalance(ctx, mu, addr, ids.Empty, alloc.Balance); err != nil {
			return fmt.Errorf("%w: addr=%s, bal=%d", err, alloc.Address, alloc.Balance)
		}
	}
	if err := storage.SetAsset(
		ctx,
		mu,
		ids.Empty,
		[]byte(consts.Symbol),
		consts.Decimals,
		[]byte(consts.Name),
		supply,
		codec.EmptyAddress,
	); err != nil {
		return err
	}
	return g.loadFactory(ctx, mu)
}

// loadFactory writes the factory singleton when the policy names an admin.
// Only arithmetic soundness is enforced here; the bps caps bind on-chain
// mutations, not the operator's genesis file.
func (g *Genesis) loadFactory(ctx context.Context, mu state.Mutable) error {
	p := g.Factory
	if p.Admin == "" {
		return nil
	}
	admin, err := utils.ParseAddress(p.Admin)
	if err != nil {
		return err
	}
	recipient := admin
	if p.FeeRecipient != "" {
		recipient, err = utils.ParseAddress(p.FeeRecipient)
		if err != nil {
			return err
		}
	}
	if p.EntryFeeBps > pricing.MaxBPS || p.ExitFeeBps > pricing.MaxBPS {
		return ErrInvalidFactoryPolicy
	}
	if p.MinManagementFeeBps > p.MaxManagementFeeBps || p.MaxManagementFeeBps > pricing.MaxBPS {
		return ErrInvalidFactoryPolicy
	}
	if p.CreatorFeeRatioBps == 0 || p.PlatformFeeRatioBps == 0 ||
		int(p.CreatorFeeRatioBps)+int(p.PlatformFeeRatioBps) != pricing.MaxBPS {
		return ErrInvalidFactoryPolicy
	}
	return storage.SetFactory(ctx, mu, &storage.Factory{
		Admin:               admin,
		FeeRecipient:        recipient,
		VaultCount:          0,
		Status:              storage.FactoryActive,
		EntryFeeBps:         p.EntryFeeBps,
		ExitFeeBps:          p.ExitFeeBps,
		CreationFee:         p.CreationFee,
		MinManagementFeeBps: p.MinManagementFeeBps,
		MaxManagementFeeBps: p.MaxManagementFeeBps,
		CreatorFeeRatioBps:  p.CreatorFeeRatioBps,
		PlatformFeeRatioBps: p.PlatformFeeRatioBps,
	})
}

func (g *Genesis) GetStateBranchFactor() merkledb.BranchFactor {
	return g.StateBranchFactor
}
