// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package consts

const (
	// Auth TypeIDs
	ED25519ID   uint8 = 0
	SECP256R1ID uint8 = 1
	BLSID       uint8 = 2

	// VAULTID prefixes derived vault custody addresses. Vaults are accounts
	// with no signing key; their addresses are computed from the vault index.
	VAULTID uint8 = 3
)
