// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package version

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ava-labs/fundvm/consts"
	"github.com/ava-labs/fundvm/version"
)

func init() {
	cobra.EnablePrefixMatching = true
}

// NewCommand implements "fundvm version" command.
func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Prints out the version",
		RunE:  versionFunc,
	}
}

func versionFunc(*cobra.Command, []string) error {
	fmt.Printf("%s %s\n", consts.Name, version.String())
	return nil
}
