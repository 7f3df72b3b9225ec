package verify

import (
	"fmt"
	"os"

	"github.com/ProtonMail/gopenpgp/v2/crypto"
)

const (
	// MaxKeySize caps an armored public key file (100KB).
	MaxKeySize = 100 * 1024

	// MaxSignatureSize caps a detached signature asset (10KB).
	MaxSignatureSize = 10 * 1024
)

// LoadKey reads an armored PGP public key from path.
func LoadKey(path string) (*crypto.Key, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() > MaxKeySize {
		return nil, fmt.Errorf("key file %s exceeds %d bytes", path, MaxKeySize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read key file: %w", err)
	}

	key, err := crypto.NewKeyFromArmored(string(data))
	if err != nil {
		return nil, fmt.Errorf("invalid public key in %s: %w", path, err)
	}
	return key, nil
}

// VerifySignature checks a detached signature over data with the given
// public key. The signature may be armored or binary.
func VerifySignature(data, signatureData []byte, key *crypto.Key) error {
	if len(signatureData) > MaxSignatureSize {
		return fmt.Errorf("signature exceeds %d bytes", MaxSignatureSize)
	}

	signature, err := crypto.NewPGPSignatureFromArmored(string(signatureData))
	if err != nil {
		// Not armored, treat as binary.
		signature = crypto.NewPGPSignature(signatureData)
	}

	keyRing, err := crypto.NewKeyRing(key)
	if err != nil {
		return fmt.Errorf("failed to create keyring: %w", err)
	}

	message := crypto.NewPlainMessage(data)

	// verifyTime 0 accepts signatures regardless of clock.
	if err := keyRing.VerifyDetached(message, signature, 0); err != nil {
		return fmt.Errorf("signature verification failed: %w", err)
	}

	return nil
}
