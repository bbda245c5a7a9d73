// Package backup implements the portable backup pipeline: the obfuscation
// codec applied to exported content, the timestamped backup file store, and
// the human-readable CSV report writers.
package backup

import (
	"encoding/base64"
	"fmt"

	"github.com/iho/sochitieu/internal/domain"
)

// cipherKey is the fixed keystream secret. The cipher is obfuscation for
// casual protection of exported files, not a security boundary.
const cipherKey = "SoChiTieu@2025#SecureKey!"

// Codec is a reversible transform from arbitrary UTF-8 text to a
// transport-safe string: the plaintext bytes XORed with a repeating
// keystream, then base64.
type Codec struct {
	key []byte
}

// NewCodec returns a Codec using the application key.
func NewCodec() *Codec {
	return &Codec{key: []byte(cipherKey)}
}

// Encode transforms plaintext into transport-safe ciphertext. It is
// deterministic: the same input always yields the same output.
func (c *Codec) Encode(plaintext string) string {
	data := []byte(plaintext)
	out := make([]byte, len(data))
	for i, b := range data {
		out[i] = b ^ c.key[i%len(c.key)]
	}
	return base64.StdEncoding.EncodeToString(out)
}

// Decode is the exact inverse of Encode. Input that is not valid base64
// fails with domain.ErrCorruptBackup; valid base64 that was not produced by
// Encode decodes to nonsense bytes, which the caller catches when parsing.
func (c *Codec) Decode(ciphertext string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrCorruptBackup, err)
	}
	out := make([]byte, len(data))
	for i, b := range data {
		out[i] = b ^ c.key[i%len(c.key)]
	}
	return string(out), nil
}
