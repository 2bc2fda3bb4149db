// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package version

import (
	"fmt"

	"github.com/ava-labs/avalanchego/version"
)

var (
	// GitCommit is set in the build script at compile time
	GitCommit string

	// Version should be updated manually
	Version = &version.Semantic{
		Major: 0,
		Minor: 0,
		Patch: 1,
	}
)

func String() string {
	return fmt.Sprintf("commit=%s version=%s", GitCommit, Version)
}
