package utils

import (
    "crypto/rand"   // secure random generation for opaque tokens
    "crypto/sha256" // SHA-256 hashing of raw tokens before storage
    "encoding/hex"  // hex encoding for tokens and digests
    "time"
)

// Prefixes for opaque tokens. They exist for operational legibility only
// (a leaked "rt_..." string is immediately recognizable in logs); they
// carry no security meaning and are hashed along with the rest of the
// token before storage.
const (
    RefreshTokenPrefix = "rt_"
    SessionTokenPrefix = "st_"
    EmailTokenPrefix   = "et_"
)

// OpaqueToken is a cryptographically random, non-decodable credential
// returned raw to the client. Only its SHA-256 hash is persisted.
type OpaqueToken struct {
    Raw string    // raw token string returned to the client
    Exp time.Time // UTC expiration time
}

// NewOpaqueToken mints a prefixed random token valid for ttl.
// 32 random bytes -> 64 hex chars after the prefix.
func NewOpaqueToken(prefix string, ttl time.Duration) (OpaqueToken, error) {
    raw, err := randomHex(32)
    if err != nil {
        return OpaqueToken{}, err
    }
    return OpaqueToken{
        Raw: prefix + raw,
        Exp: time.Now().UTC().Add(ttl),
    }, nil
}

// HashTokenRaw returns the SHA-256 hash of a raw opaque token as a hex
// string. Storing only the hash means a stolen database copy cannot be
// replayed against the service.
func HashTokenRaw(raw string) string {
    sum := sha256.Sum256([]byte(raw))
    return hex.EncodeToString(sum[:])
}

// randomHex returns a hex-encoded string generated from n bytes of
// cryptographically secure random data.
func randomHex(n int) (string, error) {
    buf := make([]byte, n)
    if _, err := rand.Read(buf); err != nil {
        return "", err
    }
    return hex.EncodeToString(buf), nil
}
