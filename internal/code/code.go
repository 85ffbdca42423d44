// Package code generates invite codes.
package code

import (
	"crypto/rand"
	"fmt"
)

// alphabet excludes visually confusable characters (0/O, 1/I/l).
const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Length is the fixed invite code length. At 32 characters per position
// collisions are negligible; uniqueness is still enforced by the storage
// layer's unique constraint rather than pre-checking.
const Length = 8

// New returns a random invite code.
func New() (string, error) {
	buf := make([]byte, Length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	for i, b := range buf {
		buf[i] = alphabet[int(b)%len(alphabet)]
	}
	return string(buf), nil
}
