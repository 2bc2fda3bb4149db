// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"

	"github.com/ava-labs/hypersdk/codec"

	"github.com/ava-labs/fundvm/cmd/fund-keeper/manager"
)

type Manager interface {
	GetKeeperInfo(context.Context) (codec.Address, int64, uint64, error)
	GetSweeps(context.Context) ([]*manager.SweepResult, error)
}
