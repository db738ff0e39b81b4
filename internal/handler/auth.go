package handler

import (
    "context"              // context with cancellation for service calls
    "errors"               // sentinel error matching
    "net/http"             // HTTP status codes and primitives
    "strings"              // input trimming and normalization
    "time"                 // timeouts and token expiries

    "github.com/labstack/echo/v4" // Echo framework for HTTP routing

    "github.com/consolehq/auth-service/internal/auth"       // flow orchestrator
    "github.com/consolehq/auth-service/internal/middleware" // context keys set by auth middleware
    "github.com/consolehq/auth-service/internal/model"
)

// AuthHandler bundles dependencies for the core auth endpoints.
type AuthHandler struct {
	Svc *auth.Service
}

func NewAuthHandler(svc *auth.Service) *AuthHandler { return &AuthHandler{Svc: svc} }

// ----- DTOs -----

type registerReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

// userPart is the outward shape of a user. It deliberately has no
// password field of any kind.
type userPart struct {
	ID            uint64 `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Role          string `json:"role"`
	EmailVerified bool   `json:"email_verified"`
}
type authResp struct {
	User         userPart `json:"user"`
	Token        string   `json:"token"`
	RefreshToken string   `json:"refresh_token"`
}

func toUserPart(u model.User) userPart {
	return userPart{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, EmailVerified: u.EmailVerified}
}

func toAuthResp(p auth.TokenPair) authResp {
	return authResp{User: toUserPart(p.User), Token: p.AccessToken, RefreshToken: p.RefreshToken}
}

// reqCtx bounds the duration of a flow; hashing and storage both sit
// behind this deadline.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 10*time.Second)
}

// Register: create the user and return tokens immediately.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name/email/password required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	pair, err := h.Svc.Register(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrEmailInUse) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already in use"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
	}
	return c.JSON(http.StatusCreated, toAuthResp(pair))
}

// Login: verify credentials and return a new pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	pair, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
	}
	return c.JSON(http.StatusOK, toAuthResp(pair))
}

// Refresh: rotate the presented refresh token and return a new pair.
// A replayed or unknown token is a 400, as is an expired one.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	pair, err := h.Svc.Refresh(ctx, strings.TrimSpace(req.RefreshToken))
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrRefreshTokenExpired):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh token expired"})
		case errors.Is(err, auth.ErrInvalidRefreshToken):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid refresh token"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "refresh failed"})
	}
	return c.JSON(http.StatusOK, toAuthResp(pair))
}

// Logout: revoke all refresh tokens of the current user and blacklist
// the presented access token (protected route). Best effort; the
// response is 204 regardless of storage health.
func (h *AuthHandler) Logout(c echo.Context) error {
	uid, _ := c.Get(middleware.CtxUserID).(uint64)
	raw, _ := c.Get(middleware.CtxAccessToken).(string)
	exp, _ := c.Get(middleware.CtxAccessExp).(time.Time)

	ctx, cancel := reqCtx(c)
	defer cancel()

	h.Svc.Logout(ctx, uid, raw, exp)
	return c.NoContent(http.StatusNoContent)
}

// Me: return the authenticated user's profile (protected).
func (h *AuthHandler) Me(c echo.Context) error {
	uid, _ := c.Get(middleware.CtxUserID).(uint64)

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Svc.Profile(ctx, uid)
	if err != nil {
		if errors.Is(err, auth.ErrUnauthorized) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	return c.JSON(http.StatusOK, toUserPart(u))
}
