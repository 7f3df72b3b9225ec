package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/portalis/dist/internal/config"
	"github.com/portalis/dist/internal/httputil"
	"github.com/portalis/dist/internal/install"
	"github.com/portalis/dist/internal/platform"
	"github.com/portalis/dist/internal/release"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that the portalis install is healthy",
	Long: `Verify the portalis install: platform support, package layout, the
managed binary, the install receipt, and release host reachability.

Exits with a non-zero status if any check fails, making it suitable
as a gate in scripts and CI:

  portalis-install doctor || exit 1`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		failed := false

		// Check 1: platform support
		key := platform.Current()
		fmt.Fprintf(os.Stdout, "  Platform: %s", key)
		if suffix, ok := platform.Suffix(key); ok {
			fmt.Printf(" (%s) ... ok\n", suffix)
		} else {
			fmt.Println(" ... FAIL")
			fmt.Fprintf(os.Stderr, "    No prebuilt binary exists for this platform\n")
			fmt.Fprintf(os.Stderr, "    Supported: %v\n", platform.SupportedKeys())
			failed = true
		}

		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to locate package root: %v\n", err)
			exitWithCode(ExitCheckFailed)
		}

		// Check 2: package root writable
		fmt.Fprintf(os.Stdout, "  Package root: %s", cfg.RootDir)
		if probe, err := os.CreateTemp(cfg.RootDir, ".doctor-*"); err != nil {
			fmt.Println(" ... FAIL")
			fmt.Fprintf(os.Stderr, "    Not writable: %v\n", err)
			fmt.Fprintf(os.Stderr, "    Reinstalls will fail until this is fixed\n")
			failed = true
		} else {
			probe.Close()
			os.Remove(probe.Name())
			fmt.Println(" ... ok")
		}

		// Check 3: managed binary
		binPath := install.BinaryPath(cfg)
		fmt.Fprintf(os.Stdout, "  Binary: %s", binPath)
		if info, err := os.Stat(binPath); err != nil {
			fmt.Println(" ... FAIL")
			fmt.Fprintf(os.Stderr, "    Not found\n")
			fmt.Fprintf(os.Stderr, "    Run: portalis-install\n")
			failed = true
		} else if runtime.GOOS != "windows" && info.Mode().Perm()&0111 == 0 {
			fmt.Println(" ... FAIL")
			fmt.Fprintf(os.Stderr, "    Present but not executable\n")
			fmt.Fprintf(os.Stderr, "    Run: portalis-install\n")
			failed = true
		} else {
			fmt.Println(" ... ok")
		}

		// Check 4: install receipt
		fmt.Fprintf(os.Stdout, "  Receipt")
		if receipt, err := install.ReadReceipt(cfg.ReceiptPath); err != nil {
			if os.IsNotExist(err) {
				fmt.Println(" ... ok (none recorded)")
			} else {
				fmt.Println(" ... FAIL")
				fmt.Fprintf(os.Stderr, "    Unreadable: %v\n", err)
				failed = true
			}
		} else if receipt.Version != release.Version {
			fmt.Println(" ... FAIL")
			fmt.Fprintf(os.Stderr, "    Installed v%s, this package pins v%s\n", receipt.Version, release.Version)
			fmt.Fprintf(os.Stderr, "    Run: portalis-install\n")
			failed = true
		} else {
			fmt.Printf(" ... ok (v%s, verified=%t)\n", receipt.Version, receipt.Verified)
		}

		// Check 5: release host reachable
		host := config.DownloadHost()
		fmt.Fprintf(os.Stdout, "  Release host: %s", host)
		if err := probeHost(host); err != nil {
			fmt.Println(" ... FAIL")
			fmt.Fprintf(os.Stderr, "    Unreachable: %v\n", err)
			fmt.Fprintf(os.Stderr, "    Downloads will fail; check your network or PORTALIS_DOWNLOAD_HOST\n")
			failed = true
		} else {
			fmt.Println(" ... ok")
		}

		if failed {
			fmt.Println("\nSome checks failed.")
			exitWithCode(ExitCheckFailed)
		}
		fmt.Println("\nAll checks passed.")
	},
}

// probeHost reports whether the release host answers HTTP at all. Any
// response counts, even an error status; only transport failures mean
// unreachable.
func probeHost(host string) error {
	client := httputil.NewClient(httputil.ClientOptions{Timeout: 10 * time.Second})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, host, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}
