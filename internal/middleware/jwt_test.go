package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/consolehq/auth-service/internal/model"
	"github.com/consolehq/auth-service/internal/utils"
)

type stubBlacklist struct {
	mu   sync.Mutex
	rows map[string]bool
}

func (s *stubBlacklist) Add(_ context.Context, tokenHash string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[tokenHash] = true
	return nil
}

func (s *stubBlacklist) IsBlacklisted(_ context.Context, tokenHash string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rows[tokenHash], nil
}

func jwtTestServer(bl *stubBlacklist) *echo.Echo {
	e := echo.New()
	protected := e.Group("", JWTAuth("secret", "iss", "aud", bl))
	protected.GET("/me", func(c echo.Context) error {
		uid, _ := c.Get(CtxUserID).(uint64)
		role, _ := c.Get(CtxRole).(string)
		return c.JSON(http.StatusOK, echo.Map{"id": uid, "role": role})
	})
	return e
}

func mintToken(t *testing.T) string {
	t.Helper()
	u := model.User{ID: 42, Email: "ann@x.com", Role: model.RoleUser}
	tok, err := utils.NewAccessToken("secret", "iss", "aud", u, 60)
	require.NoError(t, err)
	return tok.Token
}

func TestJWTAuth(t *testing.T) {
	bl := &stubBlacklist{rows: map[string]bool{}}
	e := jwtTestServer(bl)
	raw := mintToken(t)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"id":42`)
	require.Contains(t, rec.Body.String(), `"role":"user"`)
}

func TestJWTAuth_MissingHeader(t *testing.T) {
	e := jwtTestServer(&stubBlacklist{rows: map[string]bool{}})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuth_BadToken(t *testing.T) {
	e := jwtTestServer(&stubBlacklist{rows: map[string]bool{}})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

// A structurally valid, unexpired token is still rejected once its hash
// lands on the blacklist (logout revokes before natural expiry).
func TestJWTAuth_BlacklistedToken(t *testing.T) {
	bl := &stubBlacklist{rows: map[string]bool{}}
	e := jwtTestServer(bl)
	raw := mintToken(t)
	require.NoError(t, bl.Add(context.Background(), utils.HashTokenRaw(raw), time.Now().Add(time.Hour)))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	e := echo.New()
	e.GET("/admin", func(c echo.Context) error { return c.NoContent(http.StatusOK) },
		func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error {
				c.Set(CtxRole, model.RoleUser)
				return next(c)
			}
		},
		RequireRole(model.RoleAdmin))

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)
}
