package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// Digest is a SHA-256 fingerprint of the exact source bytes handed to the
// compiler.
type Digest [32]byte

// Sum hashes b.
func Sum(b []byte) Digest {
	return sha256.Sum256(b)
}

// SumFile hashes the file at path without loading it whole.
func SumFile(path string) (Digest, error) {
	var d Digest
	// #nosec G304 -- path is the user's source file
	f, err := os.Open(path)
	if err != nil {
		return d, err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return d, fmt.Errorf("failed to hash %s: %w", path, err)
	}
	copy(d[:], h.Sum(nil))
	return d, nil
}

// IsZero reports whether d was never computed.
func (d Digest) IsZero() bool {
	return d == Digest{}
}

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// Short returns the first 12 hex digits, enough for listings.
func (d Digest) Short() string {
	return d.String()[:12]
}
