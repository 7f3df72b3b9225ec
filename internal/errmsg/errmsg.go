// Package errmsg renders install and launch failures as actionable
// messages. The installer never surfaces a bare error string: every
// failure mode gets a short explanation of what went wrong followed by
// the concrete steps a user can take, so a broken install of the
// portalis binary never strands someone without a path forward.
package errmsg

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/portalis/dist/internal/config"
	"github.com/portalis/dist/internal/download"
	"github.com/portalis/dist/internal/install"
	"github.com/portalis/dist/internal/platform"
	"github.com/portalis/dist/internal/release"
	"github.com/portalis/dist/internal/verify"
)

// FormatResult renders a failed install.Result as a user-facing message.
// Returns "" for a successful result.
func FormatResult(res install.Result) string {
	if res.Installed {
		return ""
	}

	switch res.Kind {
	case install.FailureUnsupported:
		return formatUnsupported(res)
	case install.FailureDownload:
		return formatDownload(res)
	case install.FailureVerify:
		return formatVerify(res)
	case install.FailureFilesystem:
		return formatFilesystem(res)
	default:
		return formatInternal(res)
	}
}

// FormatMissingBinary renders the launcher's guidance when the managed
// binary is absent from the install location.
func FormatMissingBinary(path string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "The portalis binary was not found at %s\n", path)
	b.WriteString("\nSuggestions:\n")
	b.WriteString("  - Run portalis-install to download it\n")
	b.WriteString("  - If you installed to a custom location, set PORTALIS_BINARY_PATH to the binary\n")
	fmt.Fprintf(&b, "  - Download it yourself from %s\n", releasePage(release.Version))
	return b.String()
}

// releasePage always points at the canonical host. A configured mirror
// serves assets, not a browsable release page.
func releasePage(version string) string {
	return release.ReleasePage(config.DefaultDownloadHost, version)
}

func formatUnsupported(res install.Result) string {
	var b strings.Builder

	var unsupported *release.UnsupportedPlatformError
	if errors.As(res.Err, &unsupported) {
		fmt.Fprintf(&b, "No prebuilt portalis binary is available for %s.\n", unsupported.Key)
	} else {
		b.WriteString("No prebuilt portalis binary is available for this platform.\n")
	}

	b.WriteString("\nPrebuilt binaries exist for:\n")
	for _, key := range platform.SupportedKeys() {
		suffix, _ := platform.Suffix(key)
		fmt.Fprintf(&b, "  - %s (%s)\n", key, suffix)
	}

	b.WriteString("\nYou can still use portalis:\n")
	b.WriteString("  - Build it from source:\n")
	fmt.Fprintf(&b, "      git clone https://github.com/%s/%s\n", release.Owner, release.Repo)
	fmt.Fprintf(&b, "      cd %s && cargo build --release\n", release.Repo)
	b.WriteString("  - Or fetch a binary for one of the platforms above from:\n")
	fmt.Fprintf(&b, "      %s\n", releasePage(res.Version))

	b.WriteString("\nIf you believe this platform should be supported, open an issue:\n")
	fmt.Fprintf(&b, "  %s\n", release.IssuesURL())

	return b.String()
}

func formatDownload(res install.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Failed to download the portalis binary.\n")
	if res.URL != "" {
		fmt.Fprintf(&b, "  URL: %s\n", res.URL)
	}
	if res.Err != nil {
		fmt.Fprintf(&b, "  Error: %v\n", res.Err)
	}

	b.WriteString("\nPossible causes:\n")
	for _, cause := range downloadCauses(res.Err) {
		fmt.Fprintf(&b, "  - %s\n", cause)
	}

	b.WriteString("\nSuggestions:\n")
	for _, tip := range downloadSuggestions(res.Err, res.Version) {
		fmt.Fprintf(&b, "  - %s\n", tip)
	}

	return b.String()
}

// downloadCauses classifies a transport error into likely causes. The
// checks mirror the error types net/http actually produces: typed
// errors first, then conservative string matching for conditions the
// standard library reports only as text.
func downloadCauses(err error) []string {
	var statusErr *download.StatusError
	var dnsErr *net.DNSError
	var certErr *tls.CertificateVerificationError

	switch {
	case err == nil:
		return []string{"The connection to the release host failed"}

	case errors.As(err, &statusErr):
		switch {
		case statusErr.Code == 404:
			return []string{
				"The release asset does not exist for this version and platform",
				"The release may still be publishing, or the tag was removed",
			}
		case statusErr.Code == 403:
			return []string{
				"The release host refused the request, often due to rate limiting",
			}
		case statusErr.Code >= 500:
			return []string{"The release host is having trouble serving downloads"}
		default:
			return []string{fmt.Sprintf("The release host answered with HTTP %d", statusErr.Code)}
		}

	case errors.Is(err, context.DeadlineExceeded) || isTimeout(err):
		return []string{
			"The download took longer than the configured timeout",
			"The network connection is slow or unstable",
		}

	case errors.As(err, &dnsErr):
		return []string{
			"The release host could not be resolved",
			"DNS is misconfigured or there is no network connection",
		}

	case errors.As(err, &certErr):
		return []string{
			"The TLS certificate of the release host could not be verified",
			"A proxy or captive portal may be intercepting the connection",
		}

	case containsAny(err.Error(), "connection refused", "connection reset"):
		return []string{
			"The release host refused the connection",
			"A firewall or proxy may be blocking the request",
		}

	default:
		return []string{"The connection to the release host failed mid-transfer"}
	}
}

func downloadSuggestions(err error, version string) []string {
	tips := []string{"Check your internet connection and retry"}

	var statusErr *download.StatusError
	if errors.As(err, &statusErr) && statusErr.Code == 404 {
		tips = []string{
			fmt.Sprintf("Check that the v%s release exists at %s", version, releasePage(version)),
			"Retry in a few minutes in case the release is still publishing",
		}
	} else if isTimeout(err) || errors.Is(err, context.DeadlineExceeded) {
		tips = append(tips, "Raise the timeout with PORTALIS_DOWNLOAD_TIMEOUT, e.g. PORTALIS_DOWNLOAD_TIMEOUT=20m")
	}

	tips = append(tips,
		"If your network requires a mirror, point PORTALIS_DOWNLOAD_HOST at it",
		fmt.Sprintf("Download the binary manually from %s", releasePage(version)),
	)
	return tips
}

func formatVerify(res install.Result) string {
	var b strings.Builder
	b.WriteString("The downloaded portalis binary failed verification and was discarded.\n")
	if res.Err != nil {
		fmt.Fprintf(&b, "  Error: %v\n", res.Err)
	}

	b.WriteString("\nPossible causes:\n")
	var mismatch *verify.MismatchError
	if errors.As(res.Err, &mismatch) {
		b.WriteString("  - The download was corrupted in transit\n")
		b.WriteString("  - The checksum manifest belongs to a different build of this release\n")
	} else {
		b.WriteString("  - The checksum or signature data for this release is incomplete\n")
	}
	b.WriteString("  - The release assets were tampered with\n")

	b.WriteString("\nSuggestions:\n")
	b.WriteString("  - Retry the install, transient corruption usually clears\n")
	fmt.Fprintf(&b, "  - If it keeps failing, report it: %s\n", release.IssuesURL())

	return b.String()
}

func formatFilesystem(res install.Result) string {
	var b strings.Builder
	b.WriteString("Could not write the portalis binary to the install directory.\n")
	if res.Path != "" {
		fmt.Fprintf(&b, "  Path: %s\n", res.Path)
	}
	if res.Err != nil {
		fmt.Fprintf(&b, "  Error: %v\n", res.Err)
	}

	b.WriteString("\nPossible causes:\n")
	b.WriteString("  - The install directory is not writable by this user\n")
	b.WriteString("  - The disk is full or read-only\n")

	b.WriteString("\nSuggestions:\n")
	b.WriteString("  - Check the permissions of the install directory\n")
	b.WriteString("  - Set PORTALIS_ROOT to a directory you can write to\n")

	return b.String()
}

func formatInternal(res install.Result) string {
	var b strings.Builder
	b.WriteString("The installer hit an internal error.\n")
	if res.Err != nil {
		fmt.Fprintf(&b, "  Error: %v\n", res.Err)
	}
	b.WriteString("\nThis is a bug in the install tooling, not in your environment.\n")
	fmt.Fprintf(&b, "Please report it: %s\n", release.IssuesURL())
	return b.String()
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
