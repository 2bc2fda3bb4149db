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

func TestCreateAsset(t *testing.T) {
	actionID := ids.GenerateTestID()

	tests := []chaintest.ActionTest{
		{
			Name: "EmptySymbol",
			Action: &CreateAsset{
				Symbol:   []byte{},
				Decimals: 8,
				Metadata: []byte("wrapped bitcoin"),
			},
			Actor:       vaultCreator,
			ActionID:    actionID,
			State:       chaintest.NewInMemoryStore(),
			ExpectedErr: ErrOutputSymbolEmpty,
		},
		{
			Name: "SymbolTooLarge",
			Action: &CreateAsset{
				Symbol:   bytes.Repeat([]byte{0x73}, MaxSymbolSize+1),
				Decimals: 8,
				Metadata: []byte("wrapped bitcoin"),
			},
			Actor:       vaultCreator,
			ActionID:    actionID,
			State:       chaintest.NewInMemoryStore(),
			ExpectedErr: ErrOutputSymbolTooLarge,
		},
		{
			Name: "DecimalsTooLarge",
			Action: &CreateAsset{
				Symbol:   []byte("WBTC"),
				Decimals: MaxDecimals + 1,
				Metadata: []byte("wrapped bitcoin"),
			},
			Actor:       vaultCreator,
			ActionID:    actionID,
			State:       chaintest.NewInMemoryStore(),
			ExpectedErr: ErrOutputDecimalsTooLarge,
		},
		{
			Name: "EmptyMetadata",
			Action: &CreateAsset{
				Symbol:   []byte("WBTC"),
				Decimals: 8,
				Metadata: []byte{},
			},
			Actor:       vaultCreator,
			ActionID:    actionID,
			State:       chaintest.NewInMemoryStore(),
			ExpectedErr: ErrOutputMetadataEmpty,
		},
		{
			Name: "MetadataTooLarge",
			Action: &CreateAsset{
				Symbol:   []byte("WBTC"),
				Decimals: 8,
				Metadata: bytes.Repeat([]byte{0x6d}, MaxMetadataSize+1),
			},
			Actor:       vaultCreator,
			ActionID:    actionID,
			State:       chaintest.NewInMemoryStore(),
			ExpectedErr: ErrOutputMetadataTooLarge,
		},
		{
			Name: "ValidAsset",
			Action: &CreateAsset{
				Symbol:   []byte("WBTC"),
				Decimals: 8,
				Metadata: []byte("wrapped bitcoin"),
			},
			Actor:    vaultCreator,
			ActionID: actionID,
			State:    chaintest.NewInMemoryStore(),
			Assertion: func(ctx context.Context, t *testing.T, m state.Mutable) {
				require := require.New(t)
				exists, symbol, decimals, metadata, supply, owner, err := storage.GetAsset(ctx, m, actionID)
				require.NoError(err)
				require.True(exists)
				require.Equal([]byte("WBTC"), symbol)
				require.Equal(uint8(8), decimals)
				require.Equal([]byte("wrapped bitcoin"), metadata)
				require.Equal(uint64(0), supply)
				require.Equal(vaultCreator, owner)
			},
		},
	}

	for _, tt := range tests {
		tt.Run(context.Background(), t)
	}
}
