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

var _ chain.Action = (*SyncAccrual)(nil)

// AssetPrice values one underlying asset in native base units per whole
// unit, at pricing.PriceScale.
type AssetPrice struct {
	Asset ids.ID `json:"asset"`
	Price uint64 `json:"price"`
}

// SyncAccrual accrues management fees against the vault's live holdings
// instead of the internal ledger: gross asset value is recomputed from
// actual custody balances and caller-supplied prices. Prices are trusted
// verbatim, so the action is restricted to the vault and factory admins.
// The internal ledger is left untouched; only the accrual clock and the
// accrued balance move.
type SyncAccrual struct {
	Vault codec.Address `json:"vault"`

	// Prices must carry one entry per underlying asset, in record order.
	Prices []AssetPrice `json:"prices"`
}

func (*SyncAccrual) GetTypeID() uint8 {
	return syncAccrualID
}

func (s *SyncAccrual) StateKeys(_ codec.Address, _ ids.ID) state.Keys {
	keys := state.Keys{
		string(storage.FactoryKey()):                   state.Read,
		string(storage.VaultKey(s.Vault)):              state.Read | state.Write,
		string(storage.BalanceKey(s.Vault, ids.Empty)): state.Read,
	}
	for _, entry := range s.Prices {
		keys.Add(string(storage.BalanceKey(s.Vault, entry.Asset)), state.Read)
	}
	return keys
}

func (s *SyncAccrual) StateKeysMaxChunks() []uint16 {
	chunks := []uint16{
		storage.FactoryChunks,
		storage.VaultChunks,
		storage.BalanceChunks,
	}
	for range s.Prices {
		chunks = append(chunks, storage.BalanceChunks)
	}
	return chunks
}

func (s *SyncAccrual) Execute(
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
	vault, exists, err := storage.GetVault(ctx, mu, s.Vault)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrOutputVaultMissing
	}
	if actor != vault.Admin && actor != factory.Admin {
		return nil, ErrOutputNotVaultAdmin
	}
	if len(s.Prices) != len(vault.Assets) {
		return nil, ErrOutputPriceCountMismatch
	}
	for i, entry := range s.Prices {
		if entry.Asset != vault.Assets[i].Asset {
			return nil, ErrOutputPriceCountMismatch
		}
	}

	gav, err := storage.GetBalance(ctx, mu, s.Vault, ids.Empty)
	if err != nil {
		return nil, err
	}
	for _, entry := range s.Prices {
		balance, err := storage.GetBalance(ctx, mu, s.Vault, entry.Asset)
		if err != nil {
			return nil, err
		}
		value, err := pricing.ProceedsForShares(balance, entry.Price, pricing.PriceScale)
		if err != nil {
			return nil, err
		}
		gav, err = smath.Add64(gav, value)
		if err != nil {
			return nil, err
		}
	}

	newlyAccrued := uint64(0)
	now := timestamp / millisecondsPerSecond
	if elapsed := now - vault.LastAccrual; elapsed > 0 {
		fee, err := pricing.ProRataFee(gav, vault.ManagementFeeBps, elapsed)
		if err != nil {
			return nil, err
		}
		nfees, err := smath.Add64(vault.AccruedFees, fee)
		if err != nil {
			return nil, err
		}
		vault.AccruedFees = nfees
		vault.LastAccrual = now
		newlyAccrued = fee
	}
	if err := storage.SetVault(ctx, mu, s.Vault, vault); err != nil {
		return nil, err
	}

	nav := uint64(0)
	if gav > vault.AccruedFees {
		nav = gav - vault.AccruedFees
	}
	return [][]byte{
		packUint64(gav),
		packUint64(nav),
		packUint64(newlyAccrued),
		packUint64(vault.AccruedFees),
	}, nil
}

func (*SyncAccrual) ComputeUnits(chain.Rules) uint64 {
	return SyncAccrualComputeUnits
}

func (s *SyncAccrual) Size() int {
	return codec.AddressLen + consts.IntLen +
		len(s.Prices)*(consts.IDLen+consts.Uint64Len)
}

func (s *SyncAccrual) Marshal(p *codec.Packer) {
	p.PackAddress(s.Vault)
	p.PackInt(len(s.Prices))
	for _, entry := range s.Prices {
		p.PackID(entry.Asset)
		p.PackUint64(entry.Price)
	}
}

func UnmarshalSyncAccrual(p *codec.Packer) (chain.Action, error) {
	var sync SyncAccrual
	p.UnpackAddress(&sync.Vault)
	count := p.UnpackInt(false)
	if count > MaxVaultAssets {
		return nil, ErrOutputTooManyAssets
	}
	sync.Prices = make([]AssetPrice, 0, count)
	for i := 0; i < count; i++ {
		var entry AssetPrice
		p.UnpackID(true, &entry.Asset)
		entry.Price = p.UnpackUint64(false)
		sync.Prices = append(sync.Prices, entry)
	}
	return &sync, p.Err()
}

func (*SyncAccrual) ValidRange(chain.Rules) (int64, int64) {
	// Returning -1, -1 means that the action is always valid.
	return -1, -1
}
