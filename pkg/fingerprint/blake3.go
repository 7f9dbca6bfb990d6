// Package fingerprint computes content digests for audio assets.
package fingerprint

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/spf13/afero"
	"lukechampine.com/blake3"
)

// Blake3 returns the hex-encoded 256-bit blake3 digest of r.
func Blake3(r io.Reader) (string, error) {
	h := blake3.New(32, nil)
	if _, err := io.Copy(h, r); err != nil {
		return "", fmt.Errorf("calculating blake3 hash: %w", err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// Blake3File opens path on fs and digests its content.
func Blake3File(fs afero.Fs, path string) (string, error) {
	f, err := fs.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return Blake3(f)
}
