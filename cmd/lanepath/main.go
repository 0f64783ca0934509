// SPDX-License-Identifier: MIT
// Package: lanepath/cmd/lanepath
//
// main.go — entry point.

// Command lanepath runs lane-level route searches on generated road
// networks, either one at a time (route) or as a paced load (simulate).
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "lanepath:", err)
		os.Exit(1)
	}
}
