// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import "errors"

var (
	ErrTxNotFound      = errors.New("tx not found")
	ErrAssetNotFound   = errors.New("asset not found")
	ErrFactoryNotFound = errors.New("factory not initialized")
	ErrVaultNotFound   = errors.New("vault not found")
)
