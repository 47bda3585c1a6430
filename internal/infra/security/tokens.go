package security

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

const tokenPrefix = "sh_"

// SessionTokens issues opaque bearer tokens from crypto/rand.
type SessionTokens struct {
	Bytes int
}

func (g SessionTokens) NewToken() (string, error) {
	size := g.Bytes
	if size < 16 {
		size = 32
	}
	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("security: read entropy: %w", err)
	}
	return tokenPrefix + base64.RawURLEncoding.EncodeToString(buf), nil
}
