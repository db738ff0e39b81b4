package handler

import (
    "errors"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/consolehq/auth-service/internal/auth"
)

// SessionHandler exposes login/logout for the session deployment mode,
// where one opaque store-backed token is the sole bearer credential.
type SessionHandler struct {
	Svc *auth.Service
}

func NewSessionHandler(svc *auth.Service) *SessionHandler { return &SessionHandler{Svc: svc} }

type sessionResp struct {
	User    userPart  `json:"user"`
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

// Login: verify credentials and create a session token.
func (h *SessionHandler) Login(c echo.Context) error {
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

	u, tok, err := h.Svc.SessionLogin(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
	}
	return c.JSON(http.StatusOK, sessionResp{User: toUserPart(u), Token: tok.Raw, Expires: tok.Exp})
}

// Logout: delete the presented session. The route is deliberately not
// behind the session middleware so a broken store cannot keep a client
// logged in; the response is 204 no matter what.
func (h *SessionHandler) Logout(c echo.Context) error {
	header := c.Request().Header.Get("Authorization")
	raw := strings.TrimPrefix(header, "Bearer ")
	if raw != "" && raw != header { // header had the Bearer prefix
		ctx, cancel := reqCtx(c)
		defer cancel()
		h.Svc.SessionLogout(ctx, raw)
	}
	return c.NoContent(http.StatusNoContent)
}
