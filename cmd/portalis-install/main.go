// Command portalis-install downloads the portalis release binary for the
// current platform into the package layout. It is normally invoked once
// by the package manager right after the package itself lands; running
// it again re-downloads the pinned release, which also repairs a damaged
// install.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/portalis/dist/internal/config"
	"github.com/portalis/dist/internal/errmsg"
	"github.com/portalis/dist/internal/install"
	"github.com/portalis/dist/internal/log"
	"github.com/portalis/dist/internal/release"
)

var debugFlag bool

var rootCmd = &cobra.Command{
	Use:   "portalis-install",
	Short: "Install the portalis binary for this platform",
	Long: `portalis-install downloads the portalis release binary matching this
machine and places it where the portalis launcher expects it.

When no binary can be installed it explains what to do instead. The
install itself always exits 0 so that a download problem never fails
the package installation that invoked it; run "portalis-install doctor"
to get a checkable status.`,
	Args: cobra.NoArgs,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if debugFlag {
			level = slog.LevelDebug
		}
		log.SetDefault(log.NewText(os.Stderr, level))
	},
	Run: func(cmd *cobra.Command, args []string) {
		runInstall()
	},
}

// runInstall performs the install and prints the outcome. It never calls
// os.Exit with a failure code: a missing prebuilt binary must not break
// the enclosing package installation.
func runInstall() {
	cfg, err := config.Load()
	if err != nil {
		res := install.Result{
			Kind:    install.FailureInternal,
			Version: release.Version,
			Err:     err,
		}
		fmt.Fprint(os.Stderr, errmsg.FormatResult(res))
		return
	}

	res := install.New(cfg).Run(context.Background())
	if res.Installed {
		if res.Verified {
			fmt.Printf("Installed portalis v%s to %s (checksum verified)\n", res.Version, res.Path)
		} else {
			fmt.Printf("Installed portalis v%s to %s\n", res.Version, res.Path)
		}
		return
	}

	fmt.Fprint(os.Stderr, errmsg.FormatResult(res))
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable debug logging")

	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(outdatedCmd)
	rootCmd.AddCommand(uninstallCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(ExitUsage)
	}
}
