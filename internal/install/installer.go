// Package install downloads the portalis release binary into the package
// layout and records what it did.
//
// The flow: resolve the platform, construct the asset URL, stream the
// binary to a temporary name beside its final path, verify it against the
// release checksum manifest, set the executable bit, and rename it into
// place. Any failure is reported through the Result taxonomy; the caller
// decides what the process exit status should be.
package install

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/portalis/dist/internal/config"
	"github.com/portalis/dist/internal/download"
	"github.com/portalis/dist/internal/httputil"
	"github.com/portalis/dist/internal/log"
	"github.com/portalis/dist/internal/platform"
	"github.com/portalis/dist/internal/release"
	"github.com/portalis/dist/internal/verify"
)

// maxChecksumsSize caps the checksum manifest download (64KB).
const maxChecksumsSize = 64 * 1024

// Installer performs install attempts against one package layout.
type Installer struct {
	cfg     *config.Config
	dl      *download.Downloader
	log     log.Logger
	host    string
	version string
	key     platform.Key
}

// Option configures an Installer.
type Option func(*Installer)

// WithLogger sets the logger. Default: the process-wide logger.
func WithLogger(l log.Logger) Option {
	return func(in *Installer) { in.log = l }
}

// WithDownloader overrides the downloader, letting tests supply a client
// pointed at a local server.
func WithDownloader(d *download.Downloader) Option {
	return func(in *Installer) { in.dl = d }
}

// WithHost overrides the release host.
func WithHost(host string) Option {
	return func(in *Installer) { in.host = host }
}

// WithVersion overrides the pinned product version.
func WithVersion(v string) Option {
	return func(in *Installer) { in.version = v }
}

// WithPlatform overrides platform detection.
func WithPlatform(k platform.Key) Option {
	return func(in *Installer) { in.key = k }
}

// New creates an Installer for the given package layout.
func New(cfg *config.Config, opts ...Option) *Installer {
	in := &Installer{
		cfg:     cfg,
		log:     log.Default(),
		host:    config.DownloadHost(),
		version: release.Version,
		key:     platform.Current(),
	}
	for _, opt := range opts {
		opt(in)
	}
	if in.dl == nil {
		client := httputil.NewClient(httputil.ClientOptions{
			Timeout: config.DownloadTimeout(),
		})
		in.dl = download.New(client, in.log)
	}
	return in
}

// Run performs one install attempt.
func (in *Installer) Run(ctx context.Context) Result {
	res := Result{Version: in.version}

	if err := release.ValidateVersion(in.version); err != nil {
		res.Kind = FailureInternal
		res.Err = err
		return res
	}

	if !platform.Supported(in.key) {
		res.Kind = FailureUnsupported
		res.Err = &release.UnsupportedPlatformError{Key: in.key}
		return res
	}

	url, err := release.DownloadURL(in.host, in.version, in.key)
	if err != nil {
		res.Kind = FailureInternal
		res.Err = err
		return res
	}
	res.URL = url

	if err := in.cfg.EnsureDirectories(); err != nil {
		res.Kind = FailureFilesystem
		res.Path = in.cfg.BinDir
		res.Err = err
		return res
	}

	finalPath := filepath.Join(in.cfg.BinDir, release.InstalledName(in.key))
	tmpPath := finalPath + ".download"

	in.log.Info("downloading portalis", "version", in.version, "platform", in.key.String())
	if err := in.dl.Fetch(ctx, url, tmpPath); err != nil {
		res.Kind = FailureDownload
		res.Err = err
		return res
	}

	verified, err := in.verifyBinary(ctx, tmpPath)
	if err != nil {
		os.Remove(tmpPath)
		res.Kind = FailureVerify
		res.Err = err
		return res
	}
	res.Verified = verified

	if in.key.OS != "windows" {
		if err := os.Chmod(tmpPath, 0755); err != nil {
			os.Remove(tmpPath)
			res.Kind = FailureFilesystem
			res.Path = finalPath
			res.Err = fmt.Errorf("failed to mark binary executable: %w", err)
			return res
		}
	}

	// Windows cannot rename over an existing file.
	os.Remove(finalPath)
	if err := os.Rename(tmpPath, finalPath); err != nil {
		os.Remove(tmpPath)
		res.Kind = FailureFilesystem
		res.Path = finalPath
		res.Err = fmt.Errorf("failed to move binary into place: %w", err)
		return res
	}

	res.Installed = true
	res.Path = finalPath
	in.log.Info("portalis installed", "path", finalPath, "verified", verified)

	receipt := &Receipt{
		Version:   in.version,
		Platform:  in.key.String(),
		SourceURL: url,
		Verified:  verified,
	}
	if err := WriteReceipt(in.cfg.ReceiptPath, receipt); err != nil {
		in.log.Warn("failed to write install receipt", "path", in.cfg.ReceiptPath, "error", err)
	}

	return res
}

// verifyBinary checks the downloaded file against the release checksum
// manifest. A release without a manifest skips verification and reports
// false; a manifest that is present but unusable or mismatching is an
// error.
func (in *Installer) verifyBinary(ctx context.Context, path string) (bool, error) {
	sumsURL := release.ChecksumsURL(in.host, in.version)
	manifest, err := in.dl.FetchBytes(ctx, sumsURL, maxChecksumsSize)
	if err != nil {
		if download.IsNotFound(err) {
			in.log.Debug("release publishes no checksum manifest, skipping verification")
			return false, nil
		}
		return false, fmt.Errorf("failed to fetch checksum manifest: %w", err)
	}

	if err := in.verifyManifestSignature(ctx, manifest); err != nil {
		return false, err
	}

	sums, err := verify.ParseChecksums(manifest)
	if err != nil {
		return false, err
	}

	asset, err := release.AssetName(in.key)
	if err != nil {
		return false, err
	}
	expected, ok := sums[asset]
	if !ok {
		return false, fmt.Errorf("checksum manifest has no entry for %s", asset)
	}

	if err := verify.VerifyFile(path, expected); err != nil {
		return false, err
	}
	in.log.Debug("checksum verified", "asset", asset)
	return true, nil
}

// verifyManifestSignature checks the manifest's detached signature when a
// signing key is installed at the package root. Without a key the check is
// skipped; with a key, a missing or bad signature is an error.
func (in *Installer) verifyManifestSignature(ctx context.Context, manifest []byte) error {
	key, err := verify.LoadKey(in.cfg.KeyPath)
	if err != nil {
		if os.IsNotExist(err) {
			in.log.Debug("no signing key installed, skipping signature check")
			return nil
		}
		return err
	}

	sig, err := in.dl.FetchBytes(ctx, release.SignatureURL(in.host, in.version), verify.MaxSignatureSize)
	if err != nil {
		return fmt.Errorf("failed to fetch checksum signature: %w", err)
	}

	if err := verify.VerifySignature(manifest, sig, key); err != nil {
		return err
	}
	in.log.Debug("manifest signature verified")
	return nil
}

// Uninstall removes the managed binary and the install receipt. Files that
// are already gone are not errors.
func (in *Installer) Uninstall() error {
	binPath := filepath.Join(in.cfg.BinDir, release.InstalledName(in.key))
	if err := os.Remove(binPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", binPath, err)
	}
	if err := os.Remove(in.cfg.ReceiptPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", in.cfg.ReceiptPath, err)
	}
	return nil
}

// BinaryPath returns where the managed binary lives for the running
// platform, honoring the PORTALIS_BINARY_PATH override.
func BinaryPath(cfg *config.Config) string {
	if override, ok := config.BinaryPathOverride(); ok {
		return override
	}
	return filepath.Join(cfg.BinDir, release.InstalledName(platform.Current()))
}
