// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/hypersdk/codec"
	"github.com/ava-labs/hypersdk/fees"

	"github.com/ava-labs/fundvm/genesis"
	"github.com/ava-labs/fundvm/storage"
	"github.com/ava-labs/fundvm/vaultbook"
)

type Controller interface {
	Genesis() *genesis.Genesis
	Tracer() trace.Tracer
	GetTransaction(context.Context, ids.ID) (bool, int64, bool, fees.Dimensions, uint64, error)
	GetAssetFromState(context.Context, ids.ID) (bool, []byte, uint8, []byte, uint64, codec.Address, error)
	GetBalanceFromState(context.Context, codec.Address, ids.ID) (uint64, error)
	GetFactoryFromState(context.Context) (*storage.Factory, bool, error)
	GetVaultFromState(context.Context, codec.Address) (*storage.Vault, bool, error)
	GetShareBalanceFromState(context.Context, codec.Address, codec.Address) (uint64, error)
	Vaults(limit int) []*vaultbook.TrackedVault
}
