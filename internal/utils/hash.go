package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"hash"
	"sync"
)

// SessionTokenBytes is the amount of random data in a session token.
const SessionTokenBytes = 32

// hasherPool is a package-level pool of reusable SHA-256 hash instances.
var hasherPool = sync.Pool{
	New: func() any {
		return sha256.New()
	},
}

// GenerateSessionToken returns a new opaque session token: SessionTokenBytes
// bytes from crypto/rand encoded with unpadded base64url.
func GenerateSessionToken() (string, error) {
	buf := make([]byte, SessionTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("error reading random bytes for session token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// HashToken returns the hex-encoded SHA-256 digest of token. Session stores
// only ever see this digest.
//
// Example usage:
//
//	key := utils.HashToken(token)
func HashToken(token string) string {
	h := hasherPool.Get().(hash.Hash)
	h.Reset()

	h.Write([]byte(token))
	sum := h.Sum(nil)

	h.Reset()
	hasherPool.Put(h)

	return hex.EncodeToString(sum)
}
