package middleware

import (
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/consolehq/auth-service/internal/auth"
)

// SessionAuth is the session-mode counterpart of JWTAuth: the Bearer
// value is an opaque session token resolved through the session store.
// Nothing is ever decoded out of the token string itself.
func SessionAuth(svc *auth.Service) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            header := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(header, "Bearer ") {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
            }
            raw := strings.TrimPrefix(header, "Bearer ")

            u, err := svc.SessionUser(c.Request().Context(), raw)
            if err != nil {
                if err == auth.ErrUnauthorized {
                    return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid session"})
                }
                return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
            }

            c.Set(CtxUserID, u.ID)
            c.Set(CtxRole, u.Role)
            c.Set(CtxAccessToken, raw) // the session token doubles as the bearer credential
            return next(c)
        }
    }
}
