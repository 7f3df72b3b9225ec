// Package release knows where portalis binaries are published and what they
// are called.
//
// Each release publishes one binary per supported platform as GitHub
// release assets under a "v<version>" tag, alongside a SHA256SUMS manifest
// and its detached signature. This package owns those coordinates, the
// asset naming scheme, and the pinned product version the tooling
// distributes.
package release

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/portalis/dist/internal/platform"
)

const (
	// BinaryName is the name of the distributed binary.
	BinaryName = "portalis"

	// Owner is the GitHub organization releases are published under.
	Owner = "portalis"

	// Repo is the repository releases are published from.
	Repo = "portalis"

	// ChecksumsAsset is the checksum manifest published with each release.
	ChecksumsAsset = "SHA256SUMS"

	// SignatureAsset is the detached signature over the checksum manifest.
	SignatureAsset = "SHA256SUMS.asc"
)

// Version is the product version this tooling distributes. The release
// pipeline stamps it via -ldflags "-X github.com/portalis/dist/internal/release.Version=...".
var Version = "1.0.0"

// UnsupportedPlatformError reports a platform no release binary is
// published for.
type UnsupportedPlatformError struct {
	Key platform.Key
}

func (e *UnsupportedPlatformError) Error() string {
	return fmt.Sprintf("no release binary is published for %s", e.Key)
}

// ValidateVersion checks that v parses as a semantic version, with or
// without a leading "v".
func ValidateVersion(v string) error {
	if _, err := semver.NewVersion(strings.TrimPrefix(v, "v")); err != nil {
		return fmt.Errorf("invalid version %q: %w", v, err)
	}
	return nil
}

// InstalledName returns the file name the binary is installed under for k:
// "portalis", or "portalis.exe" on Windows.
func InstalledName(k platform.Key) string {
	return BinaryName + platform.Extension(k)
}

// AssetName returns the release asset name for k, e.g.
// "portalis-macos-aarch64" or "portalis-windows-x86_64.exe".
func AssetName(k platform.Key) (string, error) {
	suffix, ok := platform.Suffix(k)
	if !ok {
		return "", &UnsupportedPlatformError{Key: k}
	}
	return BinaryName + "-" + suffix + platform.Extension(k), nil
}

// assetDir returns the release download directory for a version. The tag
// carries exactly one "v" regardless of how version was spelled.
func assetDir(host, version string) string {
	return fmt.Sprintf("%s/%s/%s/releases/download/v%s",
		host, Owner, Repo, strings.TrimPrefix(version, "v"))
}

// DownloadURL returns the binary asset URL for a version and platform.
func DownloadURL(host, version string, k platform.Key) (string, error) {
	asset, err := AssetName(k)
	if err != nil {
		return "", err
	}
	return assetDir(host, version) + "/" + asset, nil
}

// ChecksumsURL returns the checksum manifest URL for a version.
func ChecksumsURL(host, version string) string {
	return assetDir(host, version) + "/" + ChecksumsAsset
}

// SignatureURL returns the checksum signature URL for a version.
func SignatureURL(host, version string) string {
	return assetDir(host, version) + "/" + SignatureAsset
}

// ReleasePage returns the human-facing release page URL for a version,
// used in error remediation text.
func ReleasePage(host, version string) string {
	return fmt.Sprintf("%s/%s/%s/releases/tag/v%s",
		host, Owner, Repo, strings.TrimPrefix(version, "v"))
}

// IssuesURL is the tracker to report unsupported platforms and install
// problems to.
func IssuesURL() string {
	return fmt.Sprintf("https://github.com/%s/%s/issues", Owner, Repo)
}

// IsNewer reports whether candidate is a strictly newer version than
// current. Both accept an optional leading "v".
func IsNewer(current, candidate string) (bool, error) {
	cur, err := semver.NewVersion(strings.TrimPrefix(current, "v"))
	if err != nil {
		return false, fmt.Errorf("invalid version %q: %w", current, err)
	}
	cand, err := semver.NewVersion(strings.TrimPrefix(candidate, "v"))
	if err != nil {
		return false, fmt.Errorf("invalid version %q: %w", candidate, err)
	}
	return cand.GreaterThan(cur), nil
}
