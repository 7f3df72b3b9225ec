package main

import "os"

// Exit codes for the installer CLI. The bare install always exits 0;
// these apply to the diagnostic subcommands.
const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0

	// ExitGeneral indicates a general error
	ExitGeneral = 1

	// ExitUsage indicates invalid arguments
	ExitUsage = 2

	// ExitCheckFailed indicates a doctor check failed
	ExitCheckFailed = 3
)

func exitWithCode(code int) {
	os.Exit(code)
}
