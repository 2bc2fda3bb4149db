// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"bytes"
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/hypersdk/chain/chaintest"
	"github.com/ava-labs/hypersdk/state"

	"github.com/ava-labs/fundvm/storage"
)

func TestCreateVault(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	vaultOne := storage.VaultAddress(1)
	validCreate := func() *CreateVault {
		return &CreateVault{
			Index:            1,
			Name:             []byte("Stable Yield Basket"),
			Symbol:           []byte("SYB"),
			ManagementFeeBps: 100,
			Assets: []storage.VaultAsset{
				{Asset: assetOne, AllocationBps: 6_000},
				{Asset: assetTwo, AllocationBps: 4_000},
			},
			FeeRecipient: platformWallet,
		}
	}

	pausedFactory := testFactory()
	pausedFactory.Status = storage.FactoryPaused

	chargingFactory := testFactory()
	chargingFactory.CreationFee = 10_000_000
	chargingState := seedState(t, chargingFactory, nil)
	require.NoError(storage.SetBalance(ctx, chargingState, vaultCreator, ids.Empty, 10_000_000))

	tests := []chaintest.ActionTest{
		{
			Name:        "MissingFactory",
			Action:      validCreate(),
			Actor:       vaultCreator,
			State:       chaintest.NewInMemoryStore(),
			ExpectedErr: ErrOutputFactoryMissing,
		},
		{
			Name:        "FactoryNotActive",
			Action:      validCreate(),
			Actor:       vaultCreator,
			State:       seedState(t, pausedFactory, nil),
			ExpectedErr: ErrOutputFactoryNotActive,
		},
		{
			Name: "WrongFeeRecipient",
			Action: func() *CreateVault {
				a := validCreate()
				a.FeeRecipient = bystander
				return a
			}(),
			Actor:       vaultCreator,
			State:       seedState(t, testFactory(), nil),
			ExpectedErr: ErrOutputWrongFeeRecipient,
		},
		{
			Name: "StaleIndex",
			Action: func() *CreateVault {
				a := validCreate()
				a.Index = 0
				return a
			}(),
			Actor:       vaultCreator,
			State:       seedState(t, testFactory(), nil),
			ExpectedErr: ErrOutputWrongIndex,
		},
		{
			Name: "EmptyName",
			Action: func() *CreateVault {
				a := validCreate()
				a.Name = nil
				return a
			}(),
			Actor:       vaultCreator,
			State:       seedState(t, testFactory(), nil),
			ExpectedErr: ErrOutputNameEmpty,
		},
		{
			Name: "NameTooLarge",
			Action: func() *CreateVault {
				a := validCreate()
				a.Name = bytes.Repeat([]byte{0x6e}, MaxVaultNameSize+1)
				return a
			}(),
			Actor:       vaultCreator,
			State:       seedState(t, testFactory(), nil),
			ExpectedErr: ErrOutputNameTooLarge,
		},
		{
			Name: "EmptySymbol",
			Action: func() *CreateVault {
				a := validCreate()
				a.Symbol = nil
				return a
			}(),
			Actor:       vaultCreator,
			State:       seedState(t, testFactory(), nil),
			ExpectedErr: ErrOutputVaultSymbolEmpty,
		},
		{
			Name: "SymbolTooLarge",
			Action: func() *CreateVault {
				a := validCreate()
				a.Symbol = bytes.Repeat([]byte{0x73}, MaxVaultSymbolSize+1)
				return a
			}(),
			Actor:       vaultCreator,
			State:       seedState(t, testFactory(), nil),
			ExpectedErr: ErrOutputVaultSymbolTooLarge,
		},
		{
			Name: "ManagementFeeBelowBounds",
			Action: func() *CreateVault {
				a := validCreate()
				a.ManagementFeeBps = 40
				return a
			}(),
			Actor:       vaultCreator,
			State:       seedState(t, testFactory(), nil),
			ExpectedErr: ErrOutputManagementFeeOutOfRange,
		},
		{
			Name: "ManagementFeeAboveBounds",
			Action: func() *CreateVault {
				a := validCreate()
				a.ManagementFeeBps = 301
				return a
			}(),
			Actor:       vaultCreator,
			State:       seedState(t, testFactory(), nil),
			ExpectedErr: ErrOutputManagementFeeOutOfRange,
		},
		{
			Name: "NoAssets",
			Action: func() *CreateVault {
				a := validCreate()
				a.Assets = nil
				return a
			}(),
			Actor:       vaultCreator,
			State:       seedState(t, testFactory(), nil),
			ExpectedErr: ErrOutputNoAssets,
		},
		{
			Name: "TooManyAssets",
			Action: func() *CreateVault {
				a := validCreate()
				assets := make([]storage.VaultAsset, MaxVaultAssets+1)
				for i := range assets {
					assets[i] = storage.VaultAsset{
						Asset:         ids.ID{byte(i + 1), byte((i + 1) >> 8)},
						AllocationBps: 1,
					}
				}
				a.Assets = assets
				return a
			}(),
			Actor:       vaultCreator,
			State:       seedState(t, testFactory(), nil),
			ExpectedErr: ErrOutputTooManyAssets,
		},
		{
			Name: "ZeroAllocation",
			Action: func() *CreateVault {
				a := validCreate()
				a.Assets = []storage.VaultAsset{{Asset: assetOne, AllocationBps: 0}}
				return a
			}(),
			Actor:       vaultCreator,
			State:       seedState(t, testFactory(), nil),
			ExpectedErr: ErrOutputInvalidAllocation,
		},
		{
			Name: "DuplicateAsset",
			Action: func() *CreateVault {
				a := validCreate()
				a.Assets = []storage.VaultAsset{
					{Asset: assetOne, AllocationBps: 5_000},
					{Asset: assetOne, AllocationBps: 5_000},
				}
				return a
			}(),
			Actor:       vaultCreator,
			State:       seedState(t, testFactory(), nil),
			ExpectedErr: ErrOutputDuplicateAsset,
		},
		{
			Name: "AllocationSumWrong",
			Action: func() *CreateVault {
				a := validCreate()
				a.Assets = []storage.VaultAsset{
					{Asset: assetOne, AllocationBps: 5_000},
					{Asset: assetTwo, AllocationBps: 4_000},
				}
				return a
			}(),
			Actor:       vaultCreator,
			State:       seedState(t, testFactory(), nil),
			ExpectedErr: ErrOutputInvalidAllocation,
		},
		{
			Name:        "CreationFeeUnpaid",
			Action:      validCreate(),
			Actor:       vaultCreator,
			State:       seedState(t, chargingFactory, nil),
			ExpectedErr: storage.ErrInvalidBalance,
		},
		{
			Name:            "ValidCreationWithFee",
			Action:          validCreate(),
			Actor:           vaultCreator,
			Timestamp:       testTimestamp,
			State:           chargingState,
			ExpectedOutputs: [][]byte{vaultOne[:]},
			Assertion: func(ctx context.Context, t *testing.T, m state.Mutable) {
				require := require.New(t)
				vault, exists, err := storage.GetVault(ctx, m, vaultOne)
				require.NoError(err)
				require.True(exists)
				require.Equal(uint32(1), vault.Index)
				require.Equal(vaultCreator, vault.Admin)
				require.Equal([]byte("Stable Yield Basket"), vault.Name)
				require.Equal([]byte("SYB"), vault.Symbol)
				require.Equal(uint16(100), vault.ManagementFeeBps)
				require.Equal(storage.VaultActive, vault.Status)
				require.Equal(uint64(0), vault.TotalAssets)
				require.Equal(SeedShares, vault.TotalSupply)
				require.Equal(testNow, vault.CreatedAt)
				require.Equal(testNow, vault.LastAccrual)
				require.Equal(uint64(0), vault.AccruedFees)
				require.Len(vault.Assets, 2)

				seed, err := storage.GetShareBalance(ctx, m, vaultOne, vaultOne)
				require.NoError(err)
				require.Equal(SeedShares, seed)

				factory, _, err := storage.GetFactory(ctx, m)
				require.NoError(err)
				require.Equal(uint32(2), factory.VaultCount)

				creatorBal, err := storage.GetBalance(ctx, m, vaultCreator, ids.Empty)
				require.NoError(err)
				require.Equal(uint64(0), creatorBal)
				platformBal, err := storage.GetBalance(ctx, m, platformWallet, ids.Empty)
				require.NoError(err)
				require.Equal(uint64(10_000_000), platformBal)
			},
		},
		{
			Name:            "ValidCreationWithoutFee",
			Action:          validCreate(),
			Actor:           vaultCreator,
			Timestamp:       testTimestamp,
			State:           seedState(t, testFactory(), nil),
			ExpectedOutputs: [][]byte{vaultOne[:]},
			Assertion: func(ctx context.Context, t *testing.T, m state.Mutable) {
				require := require.New(t)
				_, exists, err := storage.GetVault(ctx, m, vaultOne)
				require.NoError(err)
				require.True(exists)
			},
		},
	}

	for _, tt := range tests {
		tt.Run(ctx, t)
	}
}
