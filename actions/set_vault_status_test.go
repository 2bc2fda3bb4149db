// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/hypersdk/chain/chaintest"
	"github.com/ava-labs/hypersdk/state"

	"github.com/ava-labs/fundvm/storage"
)

func TestSetVaultStatus(t *testing.T) {
	pausedVault := func() *storage.Vault {
		v := testVault()
		v.Status = storage.VaultPaused
		return v
	}
	closedVault := func() *storage.Vault {
		v := testVault()
		v.Status = storage.VaultClosed
		return v
	}

	requireStatus := func(want storage.VaultStatus) func(context.Context, *testing.T, state.Mutable) {
		return func(ctx context.Context, t *testing.T, m state.Mutable) {
			require := require.New(t)
			vault, exists, err := storage.GetVault(ctx, m, vaultZero)
			require.NoError(err)
			require.True(exists)
			require.Equal(want, vault.Status)
		}
	}

	tests := []chaintest.ActionTest{
		{
			Name:        "MissingVault",
			Action:      &SetVaultStatus{Vault: vaultZero, Pause: true},
			Actor:       vaultCreator,
			State:       chaintest.NewInMemoryStore(),
			ExpectedErr: ErrOutputVaultMissing,
		},
		{
			Name:        "NotAdmin",
			Action:      &SetVaultStatus{Vault: vaultZero, Pause: true},
			Actor:       bystander,
			State:       seedState(t, nil, testVault()),
			ExpectedErr: ErrOutputNotVaultAdmin,
		},
		{
			Name:      "PauseActiveVault",
			Action:    &SetVaultStatus{Vault: vaultZero, Pause: true},
			Actor:     vaultCreator,
			State:     seedState(t, nil, testVault()),
			Assertion: requireStatus(storage.VaultPaused),
		},
		{
			Name:      "PauseIsIdempotent",
			Action:    &SetVaultStatus{Vault: vaultZero, Pause: true},
			Actor:     vaultCreator,
			State:     seedState(t, nil, pausedVault()),
			Assertion: requireStatus(storage.VaultPaused),
		},
		{
			Name:        "PauseClosedVault",
			Action:      &SetVaultStatus{Vault: vaultZero, Pause: true},
			Actor:       vaultCreator,
			State:       seedState(t, nil, closedVault()),
			ExpectedErr: ErrOutputVaultClosed,
		},
		{
			Name:      "ResumePausedVault",
			Action:    &SetVaultStatus{Vault: vaultZero, Pause: false},
			Actor:     vaultCreator,
			State:     seedState(t, nil, pausedVault()),
			Assertion: requireStatus(storage.VaultActive),
		},
		{
			Name:        "ResumeActiveVault",
			Action:      &SetVaultStatus{Vault: vaultZero, Pause: false},
			Actor:       vaultCreator,
			State:       seedState(t, nil, testVault()),
			ExpectedErr: ErrOutputVaultNotPaused,
		},
		{
			Name:        "ResumeClosedVault",
			Action:      &SetVaultStatus{Vault: vaultZero, Pause: false},
			Actor:       vaultCreator,
			State:       seedState(t, nil, closedVault()),
			ExpectedErr: ErrOutputVaultNotPaused,
		},
	}

	for _, tt := range tests {
		tt.Run(context.Background(), t)
	}
}
