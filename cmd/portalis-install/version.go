package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/portalis/dist/internal/buildinfo"
	"github.com/portalis/dist/internal/release"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(buildinfo.Banner("portalis-install", release.Version))
	},
}
