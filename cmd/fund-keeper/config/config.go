// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"github.com/ava-labs/hypersdk/auth"
	"github.com/ava-labs/hypersdk/codec"
	"github.com/ava-labs/hypersdk/crypto/ed25519"

	"github.com/ava-labs/fundvm/consts"
)

type Config struct {
	HTTPHost string `json:"host"`
	HTTPPort int    `json:"port"`

	PrivateKey ed25519.PrivateKey `json:"privateKey"`

	FundRPC string `json:"fundRPC"`

	// CollectSchedule is a cron expression (with a seconds field) that
	// controls how often the keeper sweeps tracked vaults.
	CollectSchedule  string `json:"collectSchedule"`
	MinCollectAmount uint64 `json:"minCollectAmount"`
	HistorySize      int    `json:"historySize"`

	// TrackedVaults restricts sweeps to the listed vault addresses. Empty
	// means every vault the chain reports.
	TrackedVaults []string `json:"trackedVaults"`

	// SyncPrices values underlying assets (by asset ID) in native base units
	// per whole unit. When set, and when [PrivateKey] belongs to a vault or
	// factory admin, each sweep revalues holdings before collecting.
	SyncPrices map[string]uint64 `json:"syncPrices"`
}

func (c *Config) Address() codec.Address {
	return auth.NewED25519Address(c.PrivateKey.PublicKey())
}

func (c *Config) AddressBech32() string {
	return codec.MustAddressBech32(consts.HRP, c.Address())
}
