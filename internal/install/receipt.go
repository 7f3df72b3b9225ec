package install

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Receipt records what an install attempt put on disk. It is advisory
// metadata for doctor and support: reinstalls overwrite it, and a write
// failure never fails the install.
type Receipt struct {
	Version     string    `toml:"version"`
	Platform    string    `toml:"platform"`
	SourceURL   string    `toml:"source_url"`
	Verified    bool      `toml:"verified"`
	InstalledAt time.Time `toml:"installed_at"`
}

// WriteReceipt writes the receipt to path, stamping InstalledAt if unset.
func WriteReceipt(path string, r *Receipt) error {
	if r.InstalledAt.IsZero() {
		r.InstalledAt = time.Now().UTC()
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create receipt: %w", err)
	}
	defer f.Close()

	if _, err := fmt.Fprintln(f, "# portalis install receipt, written by portalis-install"); err != nil {
		return fmt.Errorf("failed to write receipt: %w", err)
	}
	if err := toml.NewEncoder(f).Encode(r); err != nil {
		return fmt.Errorf("failed to write receipt: %w", err)
	}
	return nil
}

// ReadReceipt reads the receipt at path. A missing file returns
// os.ErrNotExist.
func ReadReceipt(path string) (*Receipt, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var r Receipt
	if _, err := toml.Decode(string(data), &r); err != nil {
		return nil, fmt.Errorf("failed to parse receipt: %w", err)
	}
	return &r, nil
}
