package workflow

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateID generates a random ID with the given prefix. Collisions
// within a session are vanishingly unlikely (64 random bits).
func GenerateID(prefix string) string {
	b := make([]byte, 8)
	rand.Read(b)
	return prefix + "-" + hex.EncodeToString(b)
}
