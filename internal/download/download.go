// Package download streams release assets to disk.
//
// The contract for binary downloads: the destination file is created only
// after a success status arrives, so a 404 leaves nothing behind, and a
// transport error mid-stream removes the partial file before returning.
package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/portalis/dist/internal/log"
	"github.com/portalis/dist/internal/progress"
)

// StatusError reports a request that completed with a non-success status
// after any redirects were followed.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned HTTP %d for %s", e.Code, e.URL)
}

// IsNotFound reports whether err is a StatusError carrying a 404.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusNotFound
}

// Downloader fetches release assets.
type Downloader struct {
	client *http.Client
	log    log.Logger
}

// New creates a Downloader on the given client. A nil logger disables
// logging.
func New(client *http.Client, logger log.Logger) *Downloader {
	if logger == nil {
		logger = log.NewNoop()
	}
	return &Downloader{client: client, log: logger}
}

// Fetch downloads url into dest, following redirects up to the client's
// depth limit. Compression is refused so byte counts stay meaningful for
// progress and checksums.
func (d *Downloader) Fetch(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept-Encoding", "identity")

	d.log.Debug("requesting asset", "url", url)
	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{URL: url, Code: resp.StatusCode}
	}
	if encoding := resp.Header.Get("Content-Encoding"); encoding != "" && encoding != "identity" {
		return fmt.Errorf("compressed responses not supported (got %s)", encoding)
	}

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dest, err)
	}

	if err := copyBody(out, resp); err != nil {
		out.Close()
		os.Remove(dest)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(dest)
		return fmt.Errorf("failed to finish writing %s: %w", dest, err)
	}

	d.log.Debug("asset downloaded", "dest", dest)
	return nil
}

func copyBody(out *os.File, resp *http.Response) error {
	if progress.ShouldShowProgress() && resp.ContentLength > 0 {
		pw := progress.NewWriter(out, resp.ContentLength, os.Stderr)
		defer pw.Finish()
		if _, err := io.Copy(pw, resp.Body); err != nil {
			return fmt.Errorf("download interrupted: %w", err)
		}
		return nil
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("download interrupted: %w", err)
	}
	return nil
}

// FetchBytes downloads a small asset (checksums, signatures) into memory,
// reading at most limit bytes.
func (d *Downloader) FetchBytes(ctx context.Context, url string, limit int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept-Encoding", "identity")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{URL: url, Code: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return data, nil
}
