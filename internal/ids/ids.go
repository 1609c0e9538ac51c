package ids

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// New generates a hex-based ID with a prefix (used for projects and
// collaboration requests). Format: "prefix_hexstring" (e.g., "proj_a1b2c3...")
func New(prefix string) (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s_%s", prefix, hex.EncodeToString(b)), nil
}
