// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage_test

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/hypersdk/auth"
	"github.com/ava-labs/hypersdk/chain/chaintest"
	"github.com/ava-labs/hypersdk/codec"
	"github.com/ava-labs/hypersdk/crypto/ed25519"

	"github.com/ava-labs/fundvm/storage"
)

func newTestAddress(t *testing.T) codec.Address {
	priv, err := ed25519.GeneratePrivateKey()
	require.NoError(t, err)
	return auth.NewED25519Address(priv.PublicKey())
}

func TestBalanceBookkeeping(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := chaintest.NewInMemoryStore()
	addr := newTestAddress(t)
	asset := ids.GenerateTestID()

	// native and asset balances are tracked independently
	require.NoError(storage.AddBalance(ctx, mu, addr, ids.Empty, 100, true))
	require.NoError(storage.AddBalance(ctx, mu, addr, asset, 7, true))
	bal, err := storage.GetBalance(ctx, mu, addr, ids.Empty)
	require.NoError(err)
	require.Equal(uint64(100), bal)
	bal, err = storage.GetBalance(ctx, mu, addr, asset)
	require.NoError(err)
	require.Equal(uint64(7), bal)

	require.NoError(storage.SubBalance(ctx, mu, addr, ids.Empty, 40))
	bal, err = storage.GetBalance(ctx, mu, addr, ids.Empty)
	require.NoError(err)
	require.Equal(uint64(60), bal)

	// draining a balance removes the record but reads as zero
	require.NoError(storage.SubBalance(ctx, mu, addr, ids.Empty, 60))
	bal, err = storage.GetBalance(ctx, mu, addr, ids.Empty)
	require.NoError(err)
	require.Zero(bal)

	err = storage.SubBalance(ctx, mu, addr, asset, 8)
	require.ErrorIs(err, storage.ErrInvalidBalance)

	// refunds to missing accounts are dropped
	other := newTestAddress(t)
	require.NoError(storage.AddBalance(ctx, mu, other, ids.Empty, 5, false))
	bal, err = storage.GetBalance(ctx, mu, other, ids.Empty)
	require.NoError(err)
	require.Zero(bal)
}

func TestFactoryRoundTrip(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := chaintest.NewInMemoryStore()

	f, exists, err := storage.GetFactory(ctx, mu)
	require.NoError(err)
	require.False(exists)
	require.Nil(f)

	set := &storage.Factory{
		Admin:               newTestAddress(t),
		FeeRecipient:        newTestAddress(t),
		VaultCount:          3,
		Status:              storage.FactoryPaused,
		EntryFeeBps:         25,
		ExitFeeBps:          25,
		CreationFee:         10_000_000,
		MinManagementFeeBps: 50,
		MaxManagementFeeBps: 300,
		CreatorFeeRatioBps:  7_000,
		PlatformFeeRatioBps: 3_000,
	}
	require.NoError(storage.SetFactory(ctx, mu, set))

	got, exists, err := storage.GetFactory(ctx, mu)
	require.NoError(err)
	require.True(exists)
	require.Equal(set, got)
}

func TestVaultRoundTrip(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := chaintest.NewInMemoryStore()
	vaultAddr := storage.VaultAddress(0)

	v, exists, err := storage.GetVault(ctx, mu, vaultAddr)
	require.NoError(err)
	require.False(exists)
	require.Nil(v)

	set := &storage.Vault{
		Index:            0,
		Admin:            newTestAddress(t),
		Name:             []byte("Blue Chip Basket"),
		Symbol:           []byte("BLUE"),
		ManagementFeeBps: 100,
		Status:           storage.VaultActive,
		TotalAssets:      1_000_000_000,
		TotalSupply:      997_500_000,
		CreatedAt:        1_700_000_000,
		LastAccrual:      1_700_000_500,
		AccruedFees:      42,
		Assets: []storage.VaultAsset{
			{Asset: ids.GenerateTestID(), AllocationBps: 6_000},
			{Asset: ids.GenerateTestID(), AllocationBps: 4_000},
		},
	}
	require.NoError(storage.SetVault(ctx, mu, vaultAddr, set))

	got, exists, err := storage.GetVault(ctx, mu, vaultAddr)
	require.NoError(err)
	require.True(exists)
	require.Equal(set, got)
}

func TestVaultRoundTripMaxAssets(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := chaintest.NewInMemoryStore()
	vaultAddr := storage.VaultAddress(77)

	assets := make([]storage.VaultAsset, 240)
	for i := range assets {
		assets[i] = storage.VaultAsset{Asset: ids.GenerateTestID(), AllocationBps: 1}
	}
	set := &storage.Vault{
		Index:  77,
		Admin:  newTestAddress(t),
		Name:   []byte("Everything Under The Sun And Then Some More Fund"),
		Symbol: []byte("MAXIMALIST-BASKET-INDEX-XL"),
		Status: storage.VaultClosed,
		Assets: assets,
	}
	require.NoError(storage.SetVault(ctx, mu, vaultAddr, set))

	got, exists, err := storage.GetVault(ctx, mu, vaultAddr)
	require.NoError(err)
	require.True(exists)
	require.Equal(set, got)
	require.Len(got.Assets, 240)
}

func TestVaultAddressDerivation(t *testing.T) {
	require := require.New(t)

	a := storage.VaultAddress(0)
	b := storage.VaultAddress(0)
	c := storage.VaultAddress(1)
	require.Equal(a, b)
	require.NotEqual(a, c)
	require.NotEqual(codec.EmptyAddress, a)
}

func TestShareBookkeeping(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := chaintest.NewInMemoryStore()
	vaultAddr := storage.VaultAddress(2)
	owner := newTestAddress(t)

	bal, err := storage.GetShareBalance(ctx, mu, vaultAddr, owner)
	require.NoError(err)
	require.Zero(bal)

	require.NoError(storage.AddShares(ctx, mu, vaultAddr, owner, 1_000_000))
	require.NoError(storage.AddShares(ctx, mu, vaultAddr, owner, 500_000))
	bal, err = storage.GetShareBalance(ctx, mu, vaultAddr, owner)
	require.NoError(err)
	require.Equal(uint64(1_500_000), bal)

	require.NoError(storage.SubShares(ctx, mu, vaultAddr, owner, 600_000))
	bal, err = storage.GetShareBalance(ctx, mu, vaultAddr, owner)
	require.NoError(err)
	require.Equal(uint64(900_000), bal)

	err = storage.SubShares(ctx, mu, vaultAddr, owner, 900_001)
	require.ErrorIs(err, storage.ErrInvalidShares)

	require.NoError(storage.SubShares(ctx, mu, vaultAddr, owner, 900_000))
	bal, err = storage.GetShareBalance(ctx, mu, vaultAddr, owner)
	require.NoError(err)
	require.Zero(bal)

	// holdings in one vault never bleed into another
	require.NoError(storage.AddShares(ctx, mu, vaultAddr, owner, 10))
	bal, err = storage.GetShareBalance(ctx, mu, storage.VaultAddress(3), owner)
	require.NoError(err)
	require.Zero(bal)
}

func TestVaultAccrual(t *testing.T) {
	require := require.New(t)

	v := &storage.Vault{
		ManagementFeeBps: 100,
		TotalAssets:      1_000_000_000_000,
		TotalSupply:      1_000_000_000_000,
		LastAccrual:      1_000,
	}

	// nothing elapsed
	fee, err := v.Accrue(1_000)
	require.NoError(err)
	require.Zero(fee)
	require.Equal(int64(1_000), v.LastAccrual)

	// clock never runs backwards
	fee, err = v.Accrue(500)
	require.NoError(err)
	require.Zero(fee)
	require.Equal(int64(1_000), v.LastAccrual)

	// one week at 100 bps
	now := int64(1_000 + 7*24*60*60)
	fee, err = v.Accrue(now)
	require.NoError(err)
	require.Equal(uint64(191_780_821), fee)
	require.Equal(uint64(1_000_000_000_000-191_780_821), v.TotalAssets)
	require.Equal(uint64(191_780_821), v.AccruedFees)
	require.Equal(now, v.LastAccrual)

	// immediately accruing again is free
	fee, err = v.Accrue(now)
	require.NoError(err)
	require.Zero(fee)
	require.Equal(uint64(191_780_821), v.AccruedFees)
}

func TestVaultAccrualAdvancesClockOnZeroFee(t *testing.T) {
	require := require.New(t)

	v := &storage.Vault{
		ManagementFeeBps: 100,
		TotalAssets:      1_000_000,
		LastAccrual:      0,
	}

	// one second on a tiny vault floors to zero but still settles the clock
	fee, err := v.Accrue(1)
	require.NoError(err)
	require.Zero(fee)
	require.Equal(uint64(1_000_000), v.TotalAssets)
	require.Zero(v.AccruedFees)
	require.Equal(int64(1), v.LastAccrual)
}

func TestVaultAccrualClampsAtZero(t *testing.T) {
	require := require.New(t)

	// ten years at the 2000 bps ceiling owes twice the ledger value
	v := &storage.Vault{
		ManagementFeeBps: 2_000,
		TotalAssets:      1_000_000,
		LastAccrual:      0,
	}
	fee, err := v.Accrue(10 * 365 * 24 * 60 * 60)
	require.NoError(err)
	require.Equal(uint64(2_000_000), fee)
	require.Zero(v.TotalAssets)
	require.Equal(uint64(2_000_000), v.AccruedFees)
}
