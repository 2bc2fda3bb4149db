// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"encoding/binary"

	"github.com/ava-labs/hypersdk/consts"
)

// Execution outputs are fixed-width big-endian words, one value per entry,
// so off-chain consumers can decode them without the codec.
func packUint64(v uint64) []byte {
	return binary.BigEndian.AppendUint64(nil, v)
}

// UnpackUint64 decodes a single execution output word produced by a
// successful action.
func UnpackUint64(b []byte) (uint64, error) {
	if len(b) != consts.Uint64Len {
		return 0, ErrMalformedOutput
	}
	return binary.BigEndian.Uint64(b), nil
}
