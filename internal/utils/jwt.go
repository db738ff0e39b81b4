package utils // package utils provides helpers for token creation, hashing and verification

import (
    "errors"
    "strconv"
    "time"

    "github.com/golang-jwt/jwt/v5" // JWT library for creating and parsing signed tokens
    "github.com/google/uuid"       // jti claim values

    "github.com/consolehq/auth-service/internal/model"
)

// AccessClaims is the fixed claim set carried by every access token.
// Claims are validated eagerly on decode; there is no dynamic payload.
// Subject holds the user ID in decimal form.
type AccessClaims struct {
    Email string `json:"email"`
    Role  string `json:"role"`
    jwt.RegisteredClaims
}

// UserID parses the subject claim back into a numeric user ID.
func (c *AccessClaims) UserID() (uint64, error) {
    return strconv.ParseUint(c.Subject, 10, 64)
}

// AccessToken bundles a signed JWT with its expiry so callers can
// report the expiration to clients without re-parsing the token.
type AccessToken struct {
    Token string    // the serialized JWT string
    Exp   time.Time // the UTC expiration time
}

// ErrInvalidAccessToken is returned by ParseAccessToken for any token
// that fails signature, expiry, issuer or audience checks. The cause is
// deliberately not distinguished toward callers.
var ErrInvalidAccessToken = errors.New("invalid access token")

// NewAccessToken builds and signs an HS256 JWT for a user. The token
// embeds {sub, email, role, iss, aud, exp, iat, jti}; secret, issuer and
// audience are process-wide configuration loaded once at startup.
func NewAccessToken(secret, issuer, audience string, u model.User, ttlMin int) (AccessToken, error) {
    now := time.Now().UTC()
    exp := now.Add(time.Duration(ttlMin) * time.Minute)
    claims := AccessClaims{
        Email: u.Email,
        Role:  u.Role,
        RegisteredClaims: jwt.RegisteredClaims{
            Subject:   strconv.FormatUint(u.ID, 10),
            Issuer:    issuer,
            Audience:  jwt.ClaimStrings{audience},
            ExpiresAt: jwt.NewNumericDate(exp),
            IssuedAt:  jwt.NewNumericDate(now),
            ID:        uuid.NewString(),
        },
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return AccessToken{}, err
    }
    return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken verifies signature, expiry, issuer and audience and
// returns the decoded claims. Signature verification is pure; the
// blacklist check is a separate, store-backed concern that callers
// (the JWT middleware) perform on top of this.
func ParseAccessToken(secret, issuer, audience, raw string) (*AccessClaims, error) {
    claims := &AccessClaims{}
    tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
        // Reject any signing method other than HMAC before touching the key.
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, ErrInvalidAccessToken
        }
        return []byte(secret), nil
    },
        jwt.WithIssuer(issuer),
        jwt.WithAudience(audience),
        jwt.WithExpirationRequired(),
        jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
    )
    if err != nil || !tok.Valid {
        return nil, ErrInvalidAccessToken
    }
    return claims, nil
}
