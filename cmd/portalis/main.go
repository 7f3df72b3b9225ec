// Command portalis launches the managed portalis binary, passing through
// arguments, stdio, and the child's exit code untouched.
//
// The launcher deliberately has no flags or subcommands of its own:
// every argument, including -h and --version, belongs to the child.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/portalis/dist/internal/config"
	"github.com/portalis/dist/internal/errmsg"
	"github.com/portalis/dist/internal/install"
	"github.com/portalis/dist/internal/launch"
)

// Exit codes the launcher uses for its own failures, following the shell
// convention: 126 for a binary that cannot run, 127 for one that is not
// there. Everything else is the child's exit code.
const (
	exitSpawnFailed = 126
	exitNotFound    = 127
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "portalis: cannot locate the install directory: %v\n", err)
		os.Exit(exitSpawnFailed)
	}

	code, err := launch.Run(install.BinaryPath(cfg), os.Args[1:], launch.Options{})
	if err != nil {
		var missing *launch.MissingBinaryError
		if errors.As(err, &missing) {
			fmt.Fprint(os.Stderr, errmsg.FormatMissingBinary(missing.Path))
			os.Exit(exitNotFound)
		}
		fmt.Fprintf(os.Stderr, "portalis: %v\n", err)
		os.Exit(exitSpawnFailed)
	}
	os.Exit(code)
}
