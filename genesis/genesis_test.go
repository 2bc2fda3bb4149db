// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package genesis

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/hypersdk/chain/chaintest"
	"github.com/ava-labs/hypersdk/codec"

	"github.com/ava-labs/fundvm/consts"
	"github.com/ava-labs/fundvm/storage"
	"github.com/ava-labs/fundvm/utils"
)

var (
	allocAddr = codec.CreateAddress(0, ids.ID{0x01})
	adminAddr = codec.CreateAddress(0, ids.ID{0x02})
)

func TestGenesisLoad(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	g := Default()
	g.CustomAllocation = []*CustomAllocation{
		{Address: utils.Address(allocAddr), Balance: 10_000_000},
		{Address: utils.Address(adminAddr), Balance: 5_000_000},
	}
	g.Factory.Admin = utils.Address(adminAddr)

	store := chaintest.NewInMemoryStore()
	require.NoError(g.Load(ctx, trace.Noop, store))

	bal, err := storage.GetBalance(ctx, store, allocAddr, ids.Empty)
	require.NoError(err)
	require.Equal(uint64(10_000_000), bal)

	exists, symbol, decimals, metadata, supply, owner, err := storage.GetAsset(ctx, store, ids.Empty)
	require.NoError(err)
	require.True(exists)
	require.Equal([]byte(consts.Symbol), symbol)
	require.Equal(uint8(consts.Decimals), decimals)
	require.Equal([]byte(consts.Name), metadata)
	require.Equal(uint64(15_000_000), supply)
	require.Equal(codec.EmptyAddress, owner)

	factory, exists, err := storage.GetFactory(ctx, store)
	require.NoError(err)
	require.True(exists)
	require.Equal(adminAddr, factory.Admin)
	// The recipient defaults to the admin when unset.
	require.Equal(adminAddr, factory.FeeRecipient)
	require.Equal(storage.FactoryActive, factory.Status)
	require.Equal(uint32(0), factory.VaultCount)
	require.Equal(uint16(25), factory.EntryFeeBps)
	require.Equal(uint16(25), factory.ExitFeeBps)
	require.Equal(uint64(10_000_000), factory.CreationFee)
	require.Equal(uint16(50), factory.MinManagementFeeBps)
	require.Equal(uint16(300), factory.MaxManagementFeeBps)
	require.Equal(uint16(7_000), factory.CreatorFeeRatioBps)
	require.Equal(uint16(3_000), factory.PlatformFeeRatioBps)
}

func TestGenesisLoadWithoutFactory(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	store := chaintest.NewInMemoryStore()
	require.NoError(Default().Load(ctx, trace.Noop, store))

	_, exists, err := storage.GetFactory(ctx, store)
	require.NoError(err)
	require.False(exists)
}

func TestGenesisLoadInvalidHRP(t *testing.T) {
	require := require.New(t)

	g := Default()
	g.HRP = "token"
	err := g.Load(context.Background(), trace.Noop, chaintest.NewInMemoryStore())
	require.ErrorIs(err, ErrInvalidHRP)
}

func TestGenesisLoadInvalidFactoryPolicy(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*FactoryPolicy)
	}{
		{
			name: "splitDoesNotSum",
			mutate: func(p *FactoryPolicy) {
				p.CreatorFeeRatioBps = 7_000
				p.PlatformFeeRatioBps = 4_000
			},
		},
		{
			name: "zeroPlatformRatio",
			mutate: func(p *FactoryPolicy) {
				p.CreatorFeeRatioBps = 10_000
				p.PlatformFeeRatioBps = 0
			},
		},
		{
			name: "invertedManagementBounds",
			mutate: func(p *FactoryPolicy) {
				p.MinManagementFeeBps = 400
				p.MaxManagementFeeBps = 300
			},
		},
		{
			name: "entryFeeAboveDenominator",
			mutate: func(p *FactoryPolicy) {
				p.EntryFeeBps = 10_001
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Default()
			g.Factory.Admin = utils.Address(adminAddr)
			tt.mutate(&g.Factory)
			err := g.Load(ctx, trace.Noop, chaintest.NewInMemoryStore())
			require.ErrorIs(err, ErrInvalidFactoryPolicy)
		})
	}
}

func TestGenesisJSONRoundTrip(t *testing.T) {
	require := require.New(t)

	g := Default()
	g.Factory.Admin = utils.Address(adminAddr)
	g.CustomAllocation = []*CustomAllocation{
		{Address: utils.Address(allocAddr), Balance: 1},
	}

	b, err := json.Marshal(g)
	require.NoError(err)
	parsed, err := New(b, nil)
	require.NoError(err)
	require.Equal(g, parsed)
}

func TestRules(t *testing.T) {
	require := require.New(t)

	g := Default()
	chainID := ids.GenerateTestID()
	r := g.Rules(0, 1337, chainID)

	require.Equal(uint32(1337), r.NetworkID())
	require.Equal(chainID, r.ChainID())
	require.Equal(g.MinBlockGap, r.GetMinBlockGap())
	require.Equal(g.MinEmptyBlockGap, r.GetMinEmptyBlockGap())
	require.Equal(g.ValidityWindow, r.GetValidityWindow())
	require.Equal(g.MaxBlockUnits, r.GetMaxBlockUnits())
	require.Equal(g.MinUnitPrice, r.GetMinUnitPrice())
	require.Equal([]uint16{storage.BalanceChunks}, r.GetSponsorStateKeysMaxChunks())
}
