package prefs

import (
	"crypto/sha256"
	"encoding/hex"
)

// hashName returns a filesystem-safe identifier for a preference name.
func hashName(name string) string {
	h := sha256.Sum256([]byte(name))
	return hex.EncodeToString(h[:8])
}
