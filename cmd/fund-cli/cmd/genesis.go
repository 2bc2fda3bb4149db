// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"encoding/json"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ava-labs/hypersdk/fees"

	"github.com/ava-labs/fundvm/genesis"
	"github.com/ava-labs/fundvm/pricing"
)

var genesisCmd = &cobra.Command{
	Use: "genesis",
	RunE: func(*cobra.Command, []string) error {
		return ErrMissingSubcommand
	},
}

var genGenesisCmd = &cobra.Command{
	Use:   "generate [custom allocates file] [options]",
	Short: "Creates a new genesis in the default location",
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return ErrInvalidArgs
		}
		return nil
	},
	RunE: func(_ *cobra.Command, args []string) error {
		g := genesis.Default()
		if len(minUnitPrice) > 0 {
			d, err := fees.ParseDimensions(minUnitPrice)
			if err != nil {
				return err
			}
			g.MinUnitPrice = d
		}
		if len(maxBlockUnits) > 0 {
			d, err := fees.ParseDimensions(maxBlockUnits)
			if err != nil {
				return err
			}
			g.MaxBlockUnits = d
		}
		if len(windowTargetUnits) > 0 {
			d, err := fees.ParseDimensions(windowTargetUnits)
			if err != nil {
				return err
			}
			g.WindowTargetUnits = d
		}
		if minBlockGap >= 0 {
			g.MinBlockGap = minBlockGap
		}

		if factoryAdmin != "" {
			g.Factory.Admin = factoryAdmin
		}
		if factoryFeeRecipient != "" {
			g.Factory.FeeRecipient = factoryFeeRecipient
		}
		if factoryEntryFee >= 0 {
			g.Factory.EntryFeeBps = uint16(factoryEntryFee)
		}
		if factoryExitFee >= 0 {
			g.Factory.ExitFeeBps = uint16(factoryExitFee)
		}
		if factoryCreationFee >= 0 {
			g.Factory.CreationFee = uint64(factoryCreationFee)
		}
		if factoryMinManagementFee >= 0 {
			g.Factory.MinManagementFeeBps = uint16(factoryMinManagementFee)
		}
		if factoryMaxManagementFee >= 0 {
			g.Factory.MaxManagementFeeBps = uint16(factoryMaxManagementFee)
		}
		if factoryCreatorRatio >= 0 {
			// The platform always receives the remainder of the split.
			g.Factory.CreatorFeeRatioBps = uint16(factoryCreatorRatio)
			g.Factory.PlatformFeeRatioBps = uint16(pricing.MaxBPS - factoryCreatorRatio)
		}

		a, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		allocs := []*genesis.CustomAllocation{}
		if err := json.Unmarshal(a, &allocs); err != nil {
			return err
		}
		g.CustomAllocation = allocs

		b, err := json.Marshal(g)
		if err != nil {
			return err
		}
		if err := os.WriteFile(genesisFile, b, fsModeWrite); err != nil {
			return err
		}
		color.Green("created genesis and saved to %s", genesisFile)
		return nil
	},
}
