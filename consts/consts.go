// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package consts

import (
	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/hypersdk/chain"
	"github.com/ava-labs/hypersdk/codec"
)

const (
	HRP    = "fund"
	Name   = "fundvm"
	Symbol = "FUND"
	// Decimals of the native token. The native balance is both the fee token
	// and the settlement currency of every vault, so all custody, fee, and
	// AUM figures are in native base units.
	Decimals = 6
)

var ID ids.ID

func init() {
	b := make([]byte, ids.IDLen)
	copy(b, []byte(Name))
	vmID, err := ids.ToID(b)
	if err != nil {
		panic(err)
	}
	ID = vmID
}

// Instantiate registry here so it can be imported by any package. We set these
// values in [registry].
var (
	ActionRegistry *codec.TypeParser[chain.Action]
	AuthRegistry   *codec.TypeParser[chain.Auth]
)
