// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package controller

import (
	"context"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"

	"github.com/ava-labs/hypersdk/codec"
	"github.com/ava-labs/hypersdk/fees"

	"github.com/ava-labs/fundvm/genesis"
	"github.com/ava-labs/fundvm/storage"
	"github.com/ava-labs/fundvm/vaultbook"
)

func (c *Controller) Genesis() *genesis.Genesis {
	return c.genesis
}

func (c *Controller) Logger() logging.Logger {
	return c.inner.Logger()
}

func (c *Controller) Tracer() trace.Tracer {
	return c.inner.Tracer()
}

func (c *Controller) GetTransaction(
	ctx context.Context,
	txID ids.ID,
) (bool, int64, bool, fees.Dimensions, uint64, error) {
	return storage.GetTransaction(ctx, c.metaDB, txID)
}

func (c *Controller) GetAssetFromState(
	ctx context.Context,
	asset ids.ID,
) (bool, []byte, uint8, []byte, uint64, codec.Address, error) {
	return storage.GetAssetFromState(ctx, c.inner.ReadState, asset)
}

func (c *Controller) GetBalanceFromState(
	ctx context.Context,
	addr codec.Address,
	asset ids.ID,
) (uint64, error) {
	return storage.GetBalanceFromState(ctx, c.inner.ReadState, addr, asset)
}

func (c *Controller) GetFactoryFromState(
	ctx context.Context,
) (*storage.Factory, bool, error) {
	return storage.GetFactoryFromState(ctx, c.inner.ReadState)
}

func (c *Controller) GetVaultFromState(
	ctx context.Context,
	vault codec.Address,
) (*storage.Vault, bool, error) {
	return storage.GetVaultFromState(ctx, c.inner.ReadState, vault)
}

func (c *Controller) GetShareBalanceFromState(
	ctx context.Context,
	vault codec.Address,
	owner codec.Address,
) (uint64, error) {
	return storage.GetShareBalanceFromState(ctx, c.inner.ReadState, vault, owner)
}

func (c *Controller) Vaults(limit int) []*vaultbook.TrackedVault {
	return c.vaultBook.Vaults(limit)
}
