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

func TestExecuteSwap(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	validSwap := func() *ExecuteSwap {
		return &ExecuteSwap{
			Vault:    vaultZero,
			AmountIn: 250_000,
		}
	}

	fundedState := func() state.Mutable {
		store := seedState(t, testFactory(), testVault())
		require.NoError(storage.SetBalance(ctx, store, vaultZero, ids.Empty, 1_000_000))
		return store
	}

	tests := []chaintest.ActionTest{
		{
			Name:        "MissingFactory",
			Action:      validSwap(),
			Actor:       vaultCreator,
			State:       chaintest.NewInMemoryStore(),
			ExpectedErr: ErrOutputFactoryMissing,
		},
		{
			Name:        "MissingVault",
			Action:      validSwap(),
			Actor:       vaultCreator,
			State:       seedState(t, testFactory(), nil),
			ExpectedErr: ErrOutputVaultMissing,
		},
		{
			Name:   "PausedVault",
			Action: validSwap(),
			Actor:  vaultCreator,
			State: func() state.Mutable {
				vault := testVault()
				vault.Status = storage.VaultPaused
				return seedState(t, testFactory(), vault)
			}(),
			ExpectedErr: ErrOutputVaultNotActive,
		},
		{
			Name:        "NotAuthorized",
			Action:      validSwap(),
			Actor:       bystander,
			State:       seedState(t, testFactory(), testVault()),
			ExpectedErr: ErrOutputNotVaultAdmin,
		},
		{
			Name: "ZeroAmount",
			Action: &ExecuteSwap{
				Vault:    vaultZero,
				AmountIn: 0,
			},
			Actor:       vaultCreator,
			State:       seedState(t, testFactory(), testVault()),
			ExpectedErr: ErrOutputValueZero,
		},
		{
			Name:        "InsufficientCustody",
			Action:      validSwap(),
			Actor:       vaultCreator,
			State:       seedState(t, testFactory(), testVault()),
			ExpectedErr: ErrOutputInsufficientCustody,
		},
		{
			Name:   "AuthorizedSwap",
			Action: validSwap(),
			Actor:  vaultCreator,
			State:  fundedState(),
			ExpectedOutputs: [][]byte{
				packUint64(250_000),
			},
			Assertion: func(ctx context.Context, t *testing.T, m state.Mutable) {
				require := require.New(t)
				// Authorization alone moves nothing.
				custody, err := storage.GetBalance(ctx, m, vaultZero, ids.Empty)
				require.NoError(err)
				require.Equal(uint64(1_000_000), custody)
			},
		},
		{
			Name:   "FactoryAdminMayAuthorize",
			Action: validSwap(),
			Actor:  factoryAdmin,
			State:  fundedState(),
			ExpectedOutputs: [][]byte{
				packUint64(250_000),
			},
		},
	}

	for _, tt := range tests {
		tt.Run(ctx, t)
	}
}
