// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pricing

import "errors"

var (
	ErrInvalidBps = errors.New("bps exceeds maximum")
	ErrOverflow   = errors.New("arithmetic overflow")
)
