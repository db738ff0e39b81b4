package middleware // middleware provides shared request processing for handlers

import (
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/consolehq/auth-service/internal/auth"
    "github.com/consolehq/auth-service/internal/utils"
)

// Context keys set by the auth middlewares. Handlers read these instead
// of re-parsing the Authorization header.
const (
    CtxUserID      = "user_id"      // uint64
    CtxRole        = "role"         // string
    CtxAccessToken = "access_token" // raw bearer string (JWT mode only)
    CtxAccessExp   = "access_exp"   // time.Time (JWT mode only)
)

// JWTAuth returns a middleware validating a Bearer access token:
// signature, expiry, issuer and audience via the claims parser, then a
// blacklist lookup so a token revoked by logout is rejected before its
// natural expiry. On success the subject, role and the raw token (with
// its expiry, needed by logout) are placed in the request context.
func JWTAuth(secret, issuer, audience string, blacklist auth.BlacklistStore) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            header := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(header, "Bearer ") {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
            }
            raw := strings.TrimPrefix(header, "Bearer ")

            claims, err := utils.ParseAccessToken(secret, issuer, audience, raw)
            if err != nil {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
            }

            // Blacklist check is store-backed, not part of pure token
            // verification.
            listed, err := blacklist.IsBlacklisted(c.Request().Context(), utils.HashTokenRaw(raw))
            if err != nil {
                return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
            }
            if listed {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
            }

            uid, err := claims.UserID()
            if err != nil {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
            }

            c.Set(CtxUserID, uid)
            c.Set(CtxRole, claims.Role)
            c.Set(CtxAccessToken, raw)
            c.Set(CtxAccessExp, claims.ExpiresAt.Time)
            return next(c)
        }
    }
}
