// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import "errors"

var (
	ErrInvalidAddress = errors.New("invalid address")
	ErrInvalidBalance = errors.New("invalid balance")
	ErrInvalidShares  = errors.New("invalid shares")
	ErrCorruptRecord  = errors.New("corrupt record")
)
