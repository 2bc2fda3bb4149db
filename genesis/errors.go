// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package genesis

import "errors"

var (
	ErrInvalidHRP           = errors.New("invalid HRP")
	ErrInvalidFactoryPolicy = errors.New("invalid factory policy")
)
