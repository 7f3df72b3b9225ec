package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/portalis/dist/internal/config"
	"github.com/portalis/dist/internal/install"
	"github.com/portalis/dist/internal/release"
)

var outdatedCmd = &cobra.Command{
	Use:   "outdated",
	Short: "Check whether a newer portalis release exists",
	Long: `Compare the portalis version this package pins against the latest
published release.

The pinned version only moves when the package itself is updated, so a
newer release here means the package has an update available.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		client := release.NewClient()
		latest, err := client.Latest(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error checking the latest release: %v\n", err)
			exitWithCode(ExitGeneral)
		}

		newer, err := release.IsNewer(release.Version, latest.Version)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error comparing versions: %v\n", err)
			exitWithCode(ExitGeneral)
		}

		if newer {
			fmt.Printf("portalis v%s is available (this package pins v%s)\n", latest.Version, release.Version)
			fmt.Println("Update the portalis package to get it.")
		} else {
			fmt.Printf("portalis v%s is the latest release\n", release.Version)
		}

		// An install that predates the current package pin is worth
		// flagging regardless of what upstream has.
		if cfg, err := config.Load(); err == nil {
			if receipt, err := install.ReadReceipt(cfg.ReceiptPath); err == nil && receipt.Version != release.Version {
				fmt.Printf("Note: the installed binary is v%s; run portalis-install to update it to v%s\n",
					receipt.Version, release.Version)
			}
		}
	},
}
