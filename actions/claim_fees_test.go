// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/hypersdk/chain/chaintest"
	"github.com/ava-labs/hypersdk/state"

	"github.com/ava-labs/fundvm/pricing"
	"github.com/ava-labs/fundvm/storage"
)

func TestClaimFees(t *testing.T) {
	ctx := context.Background()

	validClaim := func() *ClaimFees {
		return &ClaimFees{
			Vault:        vaultZero,
			SharePrice:   pricing.PriceScale,
			FeeRecipient: platformWallet,
		}
	}

	// claimState carries one million in accrued fees against a funded ledger.
	claimState := func() state.Mutable {
		vault := testVault()
		vault.AccruedFees = 1_000_000
		vault.TotalAssets = 997_500_000
		vault.TotalSupply = SeedShares + 997_500_000
		return seedState(t, testFactory(), vault)
	}

	tests := []chaintest.ActionTest{
		{
			Name:        "MissingFactory",
			Action:      validClaim(),
			Actor:       vaultCreator,
			State:       chaintest.NewInMemoryStore(),
			ExpectedErr: ErrOutputFactoryMissing,
		},
		{
			Name:        "MissingVault",
			Action:      validClaim(),
			Actor:       vaultCreator,
			State:       seedState(t, testFactory(), nil),
			ExpectedErr: ErrOutputVaultMissing,
		},
		{
			// Unlike DistributeFees, the factory admin may not claim on the
			// creator's behalf.
			Name:        "FactoryAdminMayNotClaim",
			Action:      validClaim(),
			Actor:       factoryAdmin,
			State:       seedState(t, testFactory(), testVault()),
			ExpectedErr: ErrOutputNotVaultAdmin,
		},
		{
			Name:        "NotAuthorized",
			Action:      validClaim(),
			Actor:       bystander,
			State:       seedState(t, testFactory(), testVault()),
			ExpectedErr: ErrOutputNotVaultAdmin,
		},
		{
			Name: "WrongFeeRecipient",
			Action: func() *ClaimFees {
				a := validClaim()
				a.FeeRecipient = bystander
				return a
			}(),
			Actor:       vaultCreator,
			State:       seedState(t, testFactory(), testVault()),
			ExpectedErr: ErrOutputWrongFeeRecipient,
		},
		{
			Name:      "NothingAccrued",
			Action:    validClaim(),
			Actor:     vaultCreator,
			Timestamp: testTimestamp,
			State:     seedState(t, testFactory(), testVault()),
			ExpectedOutputs: [][]byte{
				packUint64(0),
				packUint64(0),
			},
			Assertion: func(ctx context.Context, t *testing.T, m state.Mutable) {
				require := require.New(t)
				vault, _, err := storage.GetVault(ctx, m, vaultZero)
				require.NoError(err)
				require.Equal(uint64(0), vault.AccruedFees)
				require.Equal(SeedShares, vault.TotalSupply)
			},
		},
		{
			Name:      "FullClaim",
			Action:    validClaim(),
			Actor:     vaultCreator,
			Timestamp: testTimestamp,
			State:     claimState(),
			ExpectedOutputs: [][]byte{
				packUint64(700_000),
				packUint64(300_000),
			},
			Assertion: func(ctx context.Context, t *testing.T, m state.Mutable) {
				require := require.New(t)
				creator, err := storage.GetShareBalance(ctx, m, vaultZero, vaultCreator)
				require.NoError(err)
				require.Equal(uint64(700_000), creator)
				platform, err := storage.GetShareBalance(ctx, m, vaultZero, platformWallet)
				require.NoError(err)
				require.Equal(uint64(300_000), platform)

				vault, _, err := storage.GetVault(ctx, m, vaultZero)
				require.NoError(err)
				require.Equal(uint64(0), vault.AccruedFees)
				require.Equal(SeedShares+997_500_000+1_000_000, vault.TotalSupply)
			},
		},
		{
			// At twice the share price, each fee unit buys half a share.
			Name: "ClaimAtPremiumPrice",
			Action: func() *ClaimFees {
				a := validClaim()
				a.SharePrice = 2 * pricing.PriceScale
				return a
			}(),
			Actor:     vaultCreator,
			Timestamp: testTimestamp,
			State:     claimState(),
			ExpectedOutputs: [][]byte{
				packUint64(350_000),
				packUint64(150_000),
			},
			Assertion: func(ctx context.Context, t *testing.T, m state.Mutable) {
				require := require.New(t)
				vault, _, err := storage.GetVault(ctx, m, vaultZero)
				require.NoError(err)
				require.Equal(uint64(0), vault.AccruedFees)
				require.Equal(SeedShares+997_500_000+500_000, vault.TotalSupply)
			},
		},
		{
			Name:      "AccruesBeforeClaiming",
			Action:    validClaim(),
			Actor:     vaultCreator,
			Timestamp: testTimestamp,
			State: func() state.Mutable {
				vault := testVault()
				vault.TotalAssets = 1_000_000_000_000
				vault.LastAccrual = testNow - secondsPerWeek
				return seedState(t, testFactory(), vault)
			}(),
			ExpectedOutputs: [][]byte{
				packUint64(134_246_574),
				packUint64(57_534_247),
			},
			Assertion: func(ctx context.Context, t *testing.T, m state.Mutable) {
				require := require.New(t)
				vault, _, err := storage.GetVault(ctx, m, vaultZero)
				require.NoError(err)
				require.Equal(uint64(999_808_219_179), vault.TotalAssets)
				require.Equal(uint64(0), vault.AccruedFees)
				require.Equal(testNow, vault.LastAccrual)
				require.Equal(SeedShares+191_780_821, vault.TotalSupply)
			},
		},
	}

	for _, tt := range tests {
		tt.Run(ctx, t)
	}
}
