// Package verify checks downloaded release assets against the published
// SHA256SUMS manifest and its detached PGP signature.
package verify

import (
	"bufio"
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
)

// MismatchError reports a file whose digest differs from the manifest.
type MismatchError struct {
	Path     string
	Expected string
	Actual   string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("checksum mismatch for %s: manifest has %s, file is %s",
		e.Path, e.Expected, e.Actual)
}

// ParseChecksums parses a manifest in sha256sum format: one
// "<hex>  <name>" entry per line, with an optional "*" binary-mode marker
// before the name. Blank lines are skipped; a malformed digest is an error.
func ParseChecksums(data []byte) (map[string]string, error) {
	sums := make(map[string]string)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf("malformed checksum line %d: %q", lineNo, line)
		}

		digest := strings.ToLower(fields[0])
		if len(digest) != 64 {
			return nil, fmt.Errorf("malformed digest on line %d: %q", lineNo, fields[0])
		}
		if _, err := hex.DecodeString(digest); err != nil {
			return nil, fmt.Errorf("malformed digest on line %d: %q", lineNo, fields[0])
		}

		name := strings.TrimPrefix(fields[1], "*")
		sums[name] = digest
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read checksum manifest: %w", err)
	}

	return sums, nil
}

// FileSHA256 computes the hex-encoded SHA-256 digest of a file.
func FileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// VerifyFile checks that the file at path has the expected hex digest.
// A differing digest returns a MismatchError.
func VerifyFile(path, expected string) error {
	actual, err := FileSHA256(path)
	if err != nil {
		return err
	}
	if !strings.EqualFold(actual, expected) {
		return &MismatchError{
			Path:     path,
			Expected: strings.ToLower(expected),
			Actual:   actual,
		}
	}
	return nil
}
