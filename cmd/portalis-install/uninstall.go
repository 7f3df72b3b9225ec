package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/portalis/dist/internal/config"
	"github.com/portalis/dist/internal/install"
)

var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove the managed portalis binary",
	Long: `Remove the downloaded portalis binary and its install receipt.

The launcher and installer themselves belong to the enclosing package
and are left in place; remove the package to get rid of those.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitWithCode(ExitGeneral)
		}

		if err := install.New(cfg).Uninstall(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitWithCode(ExitGeneral)
		}
		fmt.Println("Removed the portalis binary.")
	},
}
