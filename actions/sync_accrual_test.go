// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/hypersdk/chain/chaintest"
	"github.com/ava-labs/hypersdk/state"

	"github.com/ava-labs/fundvm/storage"
)

func TestSyncAccrual(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	validSync := func() *SyncAccrual {
		return &SyncAccrual{
			Vault: vaultZero,
			Prices: []AssetPrice{
				{Asset: assetOne, Price: 3_000_000},
				{Asset: assetTwo, Price: 2_000_000},
			},
		}
	}

	// fundedCustody holds 100 native, 50 of assetOne, and 25 of assetTwo in
	// vault custody. At the prices above that marks to 300 native.
	fundedCustody := func(vault *storage.Vault) state.Mutable {
		store := seedState(t, testFactory(), vault)
		require.NoError(storage.SetBalance(ctx, store, vaultZero, ids.Empty, 100_000_000))
		require.NoError(storage.SetBalance(ctx, store, vaultZero, assetOne, 50_000_000))
		require.NoError(storage.SetBalance(ctx, store, vaultZero, assetTwo, 25_000_000))
		return store
	}

	tests := []chaintest.ActionTest{
		{
			Name:        "MissingFactory",
			Action:      validSync(),
			Actor:       vaultCreator,
			State:       chaintest.NewInMemoryStore(),
			ExpectedErr: ErrOutputFactoryMissing,
		},
		{
			Name:        "MissingVault",
			Action:      validSync(),
			Actor:       vaultCreator,
			State:       seedState(t, testFactory(), nil),
			ExpectedErr: ErrOutputVaultMissing,
		},
		{
			Name:        "NotAuthorized",
			Action:      validSync(),
			Actor:       bystander,
			State:       seedState(t, testFactory(), testVault()),
			ExpectedErr: ErrOutputNotVaultAdmin,
		},
		{
			Name: "PriceCountMismatch",
			Action: &SyncAccrual{
				Vault: vaultZero,
				Prices: []AssetPrice{
					{Asset: assetOne, Price: 3_000_000},
				},
			},
			Actor:       vaultCreator,
			State:       seedState(t, testFactory(), testVault()),
			ExpectedErr: ErrOutputPriceCountMismatch,
		},
		{
			// Prices must follow the vault's asset record order.
			Name: "PriceOrderMismatch",
			Action: &SyncAccrual{
				Vault: vaultZero,
				Prices: []AssetPrice{
					{Asset: assetTwo, Price: 2_000_000},
					{Asset: assetOne, Price: 3_000_000},
				},
			},
			Actor:       vaultCreator,
			State:       seedState(t, testFactory(), testVault()),
			ExpectedErr: ErrOutputPriceCountMismatch,
		},
		{
			Name:      "EmptyCustodyAdvancesClock",
			Action:    validSync(),
			Actor:     vaultCreator,
			Timestamp: testTimestamp,
			State: func() state.Mutable {
				vault := testVault()
				vault.LastAccrual = testNow - secondsPerWeek
				return seedState(t, testFactory(), vault)
			}(),
			ExpectedOutputs: [][]byte{
				packUint64(0),
				packUint64(0),
				packUint64(0),
				packUint64(0),
			},
			Assertion: func(ctx context.Context, t *testing.T, m state.Mutable) {
				require := require.New(t)
				vault, _, err := storage.GetVault(ctx, m, vaultZero)
				require.NoError(err)
				require.Equal(testNow, vault.LastAccrual)
			},
		},
		{
			Name:      "NoElapsedTime",
			Action:    validSync(),
			Actor:     vaultCreator,
			Timestamp: testTimestamp,
			State: func() state.Mutable {
				vault := testVault()
				vault.AccruedFees = 1_000
				return fundedCustody(vault)
			}(),
			ExpectedOutputs: [][]byte{
				packUint64(300_000_000),
				packUint64(299_999_000),
				packUint64(0),
				packUint64(1_000),
			},
		},
		{
			Name:      "MarksToCustody",
			Action:    validSync(),
			Actor:     vaultCreator,
			Timestamp: testTimestamp,
			State: func() state.Mutable {
				vault := testVault()
				vault.TotalAssets = 42
				vault.LastAccrual = testNow - secondsPerWeek
				return fundedCustody(vault)
			}(),
			ExpectedOutputs: [][]byte{
				packUint64(300_000_000),
				packUint64(299_942_466),
				packUint64(57_534),
				packUint64(57_534),
			},
			Assertion: func(ctx context.Context, t *testing.T, m state.Mutable) {
				require := require.New(t)
				vault, _, err := storage.GetVault(ctx, m, vaultZero)
				require.NoError(err)
				require.Equal(uint64(57_534), vault.AccruedFees)
				require.Equal(testNow, vault.LastAccrual)
				// The internal ledger is never touched by a sync.
				require.Equal(uint64(42), vault.TotalAssets)
			},
		},
		{
			Name:      "FactoryAdminMaySync",
			Action:    validSync(),
			Actor:     factoryAdmin,
			Timestamp: testTimestamp,
			State: func() state.Mutable {
				vault := testVault()
				vault.LastAccrual = testNow - secondsPerWeek
				return fundedCustody(vault)
			}(),
			ExpectedOutputs: [][]byte{
				packUint64(300_000_000),
				packUint64(299_942_466),
				packUint64(57_534),
				packUint64(57_534),
			},
		},
	}

	for _, tt := range tests {
		tt.Run(ctx, t)
	}
}
