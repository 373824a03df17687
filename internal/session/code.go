package session

import (
	"crypto/rand"
	"fmt"
)

// CodeAlphabet leaves out characters that are easy to confuse: I, O, 0, 1.
const CodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateCode returns a random session code of the given length.
func GenerateCode(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	// 256 is a multiple of len(CodeAlphabet), so the modulo is unbiased
	for i, b := range buf {
		buf[i] = CodeAlphabet[int(b)%len(CodeAlphabet)]
	}
	return string(buf), nil
}
