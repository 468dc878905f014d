// Package main is the entry point for the food gallery API.
//
// The binary has three commands:
//
//	food-gallery serve              start the HTTP API (reads env, see internal/config)
//	food-gallery token --sub <uid>  mint a development token for AUTH_VERIFIER=local
//	food-gallery version
//
// All real work lives under internal/; this package only parses flags,
// builds the logger and hands off.
package main

import (
	"fmt"
	"os"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	root := newRootCmd(version, buildDate)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
