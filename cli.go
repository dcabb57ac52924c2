package main

import "fmt"

// Version is the current server version. Set at build time via -ldflags.
var Version = "0.1.0-dev"

// RunCLI handles subcommand execution. Returns true if a subcommand was
// handled, so main can skip flag parsing and the serve loop entirely.
func RunCLI(args []string) bool {
	if len(args) == 0 {
		return false
	}

	switch args[0] {
	case "version":
		fmt.Printf("pmms-go %s\n", Version)
		return true
	default:
		return false
	}
}
