// Package config resolves the package layout and environment overrides for
// the distribution tooling.
//
// A portalis installation is a single directory (the package root) holding
// the tooling binaries, the install receipt, and a bin/ directory that the
// managed binary is downloaded into. By default the root is the directory
// containing the running executable; PORTALIS_ROOT overrides it for tests
// and unusual layouts.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// EnvRoot overrides the package root directory.
	EnvRoot = "PORTALIS_ROOT"

	// EnvDownloadHost overrides the release host the installer downloads
	// from. Used by tests to point at a local server.
	EnvDownloadHost = "PORTALIS_DOWNLOAD_HOST"

	// EnvDownloadTimeout configures the overall download timeout.
	// Accepts duration strings like "30s", "5m".
	EnvDownloadTimeout = "PORTALIS_DOWNLOAD_TIMEOUT"

	// EnvBinaryPath overrides the full path of the managed binary the
	// launcher runs. A diagnostics escape hatch; normal operation derives
	// the path from the package root.
	EnvBinaryPath = "PORTALIS_BINARY_PATH"

	// DefaultDownloadHost is the public release host.
	DefaultDownloadHost = "https://github.com"

	// DefaultDownloadTimeout bounds a full binary download (10 minutes).
	DefaultDownloadTimeout = 10 * time.Minute

	// ReceiptName is the install receipt file at the package root.
	ReceiptName = ".portalis-receipt.toml"

	// SigningKeyName is the optional armored public key at the package
	// root used to verify release checksums.
	SigningKeyName = "signing-key.asc"
)

// Config holds the resolved package layout.
type Config struct {
	RootDir     string // package root
	BinDir      string // <root>/bin, holds the managed binary
	ReceiptPath string // <root>/.portalis-receipt.toml
	KeyPath     string // <root>/signing-key.asc
}

// Load resolves the package layout. The root comes from PORTALIS_ROOT when
// set, otherwise from the directory containing the running executable.
func Load() (*Config, error) {
	root := os.Getenv(EnvRoot)
	if root == "" {
		exe, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("failed to locate executable: %w", err)
		}
		root = filepath.Dir(exe)
	}

	return &Config{
		RootDir:     root,
		BinDir:      filepath.Join(root, "bin"),
		ReceiptPath: filepath.Join(root, ReceiptName),
		KeyPath:     filepath.Join(root, SigningKeyName),
	}, nil
}

// EnsureDirectories creates the directories the installer writes into.
func (c *Config) EnsureDirectories() error {
	if err := os.MkdirAll(c.BinDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", c.BinDir, err)
	}
	return nil
}

// DownloadHost returns the release host from PORTALIS_DOWNLOAD_HOST, or the
// default public host. A trailing slash is trimmed so URL joining stays
// uniform.
func DownloadHost() string {
	host := os.Getenv(EnvDownloadHost)
	if host == "" {
		return DefaultDownloadHost
	}
	return strings.TrimRight(host, "/")
}

// DownloadTimeout returns the configured download timeout from
// PORTALIS_DOWNLOAD_TIMEOUT. If not set or invalid, returns
// DefaultDownloadTimeout. Accepts duration strings like "30s", "5m".
func DownloadTimeout() time.Duration {
	envValue := os.Getenv(EnvDownloadTimeout)
	if envValue == "" {
		return DefaultDownloadTimeout
	}

	duration, err := time.ParseDuration(envValue)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: invalid %s value %q, using default %v\n",
			EnvDownloadTimeout, envValue, DefaultDownloadTimeout)
		return DefaultDownloadTimeout
	}

	// Validate reasonable range (1 second to 30 minutes)
	if duration < 1*time.Second {
		fmt.Fprintf(os.Stderr, "Warning: %s too low (%v), using minimum 1s\n",
			EnvDownloadTimeout, duration)
		return 1 * time.Second
	}
	if duration > 30*time.Minute {
		fmt.Fprintf(os.Stderr, "Warning: %s too high (%v), using maximum 30m\n",
			EnvDownloadTimeout, duration)
		return 30 * time.Minute
	}

	return duration
}

// BinaryPathOverride returns the PORTALIS_BINARY_PATH override when set.
func BinaryPathOverride() (string, bool) {
	path := os.Getenv(EnvBinaryPath)
	if path == "" {
		return "", false
	}
	return path, true
}
