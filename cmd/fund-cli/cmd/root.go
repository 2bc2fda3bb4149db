// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"fmt"
	"time"

	"github.com/ava-labs/hypersdk/cli"
	"github.com/ava-labs/hypersdk/utils"
	"github.com/spf13/cobra"
)

const (
	fsModeWrite     = 0o600
	defaultDatabase = ".fund-cli"
	defaultGenesis  = "genesis.json"
)

var (
	handler *Handler

	dbPath                  string
	genesisFile             string
	minUnitPrice            []string
	maxBlockUnits           []string
	windowTargetUnits       []string
	minBlockGap             int64
	factoryAdmin            string
	factoryFeeRecipient     string
	factoryEntryFee         int64
	factoryExitFee          int64
	factoryCreationFee      int64
	factoryMinManagementFee int64
	factoryMaxManagementFee int64
	factoryCreatorRatio     int64
	hideTxs                 bool
	checkAllChains          bool
	prometheusBaseURI       string
	prometheusOpenBrowser   bool
	prometheusFile          string
	prometheusData          string
	startPrometheus         bool

	rootCmd = &cobra.Command{
		Use:        "fund-cli",
		Short:      "FundVM CLI",
		SuggestFor: []string{"fund-cli", "fundcli"},
	}
)

func init() {
	cobra.EnablePrefixMatching = true
	rootCmd.AddCommand(
		genesisCmd,
		keyCmd,
		chainCmd,
		actionCmd,
		factoryCmd,
		vaultCmd,
		prometheusCmd,
	)
	rootCmd.PersistentFlags().StringVar(
		&dbPath,
		"database",
		defaultDatabase,
		"path to database (will create it missing)",
	)
	rootCmd.PersistentPreRunE = func(*cobra.Command, []string) error {
		utils.Outf("{{yellow}}database:{{/}} %s\n", dbPath)
		controller := NewController(dbPath)
		root, err := cli.New(controller)
		if err != nil {
			return err
		}
		handler = NewHandler(root)
		return err
	}
	rootCmd.PersistentPostRunE = func(*cobra.Command, []string) error {
		return handler.Root().CloseDatabase()
	}
	rootCmd.SilenceErrors = true

	// genesis
	genGenesisCmd.PersistentFlags().StringVar(
		&genesisFile,
		"genesis-file",
		defaultGenesis,
		"genesis file path",
	)
	genGenesisCmd.PersistentFlags().StringSliceVar(
		&minUnitPrice,
		"min-unit-price",
		[]string{},
		"minimum price",
	)
	genGenesisCmd.PersistentFlags().StringSliceVar(
		&maxBlockUnits,
		"max-block-units",
		[]string{},
		"max block units",
	)
	genGenesisCmd.PersistentFlags().StringSliceVar(
		&windowTargetUnits,
		"window-target-units",
		[]string{},
		"window target units",
	)
	genGenesisCmd.PersistentFlags().Int64Var(
		&minBlockGap,
		"min-block-gap",
		-1,
		"minimum block gap (ms)",
	)
	genGenesisCmd.PersistentFlags().StringVar(
		&factoryAdmin,
		"factory-admin",
		"",
		"factory admin address",
	)
	genGenesisCmd.PersistentFlags().StringVar(
		&factoryFeeRecipient,
		"factory-fee-recipient",
		"",
		"platform fee recipient address",
	)
	genGenesisCmd.PersistentFlags().Int64Var(
		&factoryEntryFee,
		"factory-entry-fee",
		-1,
		"entry fee (bps)",
	)
	genGenesisCmd.PersistentFlags().Int64Var(
		&factoryExitFee,
		"factory-exit-fee",
		-1,
		"exit fee (bps)",
	)
	genGenesisCmd.PersistentFlags().Int64Var(
		&factoryCreationFee,
		"factory-creation-fee",
		-1,
		"vault creation fee (base units)",
	)
	genGenesisCmd.PersistentFlags().Int64Var(
		&factoryMinManagementFee,
		"factory-min-management-fee",
		-1,
		"minimum management fee (bps)",
	)
	genGenesisCmd.PersistentFlags().Int64Var(
		&factoryMaxManagementFee,
		"factory-max-management-fee",
		-1,
		"maximum management fee (bps)",
	)
	genGenesisCmd.PersistentFlags().Int64Var(
		&factoryCreatorRatio,
		"factory-creator-ratio",
		-1,
		"creator share of collected fees (bps)",
	)
	genesisCmd.AddCommand(
		genGenesisCmd,
	)

	// key
	balanceKeyCmd.PersistentFlags().BoolVar(
		&checkAllChains,
		"check-all-chains",
		false,
		"check all chains",
	)
	keyCmd.AddCommand(
		genKeyCmd,
		importKeyCmd,
		setKeyCmd,
		balanceKeyCmd,
	)

	// chain
	watchChainCmd.PersistentFlags().BoolVar(
		&hideTxs,
		"hide-txs",
		false,
		"hide txs",
	)
	chainCmd.AddCommand(
		importChainCmd,
		importANRChainCmd,
		importAvalancheOpsChainCmd,
		setChainCmd,
		chainInfoCmd,
		watchChainCmd,
	)

	// actions
	actionCmd.AddCommand(
		transferCmd,
		createAssetCmd,
		mintAssetCmd,
		burnAssetCmd,
	)

	// factory
	factoryCmd.AddCommand(
		initFactoryCmd,
		factoryInfoCmd,
		setFactoryStatusCmd,
		updateFactoryFeesCmd,
		updateFactoryAdminCmd,
	)

	// vault
	vaultCmd.AddCommand(
		createVaultCmd,
		depositCmd,
		redeemCmd,
		pauseVaultCmd,
		resumeVaultCmd,
		executeSwapCmd,
		withdrawCustodyCmd,
		collectFeesCmd,
		distributeFeesCmd,
		claimFeesCmd,
		syncAccrualCmd,
		vaultInfoCmd,
		vaultsCmd,
		previewAccrualCmd,
		shareBalanceCmd,
	)

	// prometheus
	generatePrometheusCmd.PersistentFlags().StringVar(
		&prometheusBaseURI,
		"prometheus-base-uri",
		"http://localhost:9090",
		"prometheus server location",
	)
	generatePrometheusCmd.PersistentFlags().BoolVar(
		&prometheusOpenBrowser,
		"prometheus-open-browser",
		true,
		"open browser to prometheus dashboard",
	)
	generatePrometheusCmd.PersistentFlags().StringVar(
		&prometheusFile,
		"prometheus-file",
		"/tmp/prometheus.yaml",
		"prometheus file location",
	)
	generatePrometheusCmd.PersistentFlags().StringVar(
		&prometheusData,
		"prometheus-data",
		fmt.Sprintf("/tmp/prometheus-%d", time.Now().Unix()),
		"prometheus data location",
	)
	generatePrometheusCmd.PersistentFlags().BoolVar(
		&startPrometheus,
		"prometheus-start",
		true,
		"start local prometheus server",
	)
	prometheusCmd.AddCommand(
		generatePrometheusCmd,
	)
}

func Execute() error {
	return rootCmd.Execute()
}
