package handler

import (
    "errors"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/consolehq/auth-service/internal/auth"
    "github.com/consolehq/auth-service/internal/middleware"
)

// EmailHandler exposes the email verification flow. Dev controls
// whether resend echoes the raw token in the response; outside dev the
// token only travels through the email channel.
type EmailHandler struct {
	Svc *auth.Service
	Dev bool
}

func NewEmailHandler(svc *auth.Service, dev bool) *EmailHandler {
	return &EmailHandler{Svc: svc, Dev: dev}
}

// VerifyEmail: consume the verification token from the URL path and
// flip the user's verified flag.
func (h *EmailHandler) VerifyEmail(c echo.Context) error {
	token := strings.TrimSpace(c.Param("token"))
	if token == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "token required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Svc.VerifyEmail(ctx, token)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidOrExpiredToken) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid or expired token"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "verification failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"user": toUserPart(u)})
}

// ResendVerification: issue a fresh verification token for the current
// user (protected). The previous unused token, if any, stops working.
func (h *EmailHandler) ResendVerification(c echo.Context) error {
	uid, _ := c.Get(middleware.CtxUserID).(uint64)

	ctx, cancel := reqCtx(c)
	defer cancel()

	token, err := h.Svc.ResendVerification(ctx, uid)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrAlreadyVerified):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "email already verified"})
		case errors.Is(err, auth.ErrUnauthorized):
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "resend failed"})
	}

	resp := echo.Map{"message": "verification email sent"}
	if h.Dev {
		resp["token"] = token
	}
	return c.JSON(http.StatusOK, resp)
}
