// SPDX-License-Identifier: MIT
// Package: lanepath/cmd/lanepath
//
// version.go — build information.

package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// version is overridden at link time with -ldflags "-X main.version=...".
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the lanepath version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "lanepath %s (%s)\n", version, runtime.Version())
	},
}
