package handler

import (
    "errors"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/consolehq/auth-service/internal/auth"
)

// PasswordHandler exposes the forgot/reset password flow.
type PasswordHandler struct {
	Svc *auth.Service
}

func NewPasswordHandler(svc *auth.Service) *PasswordHandler { return &PasswordHandler{Svc: svc} }

type forgotReq struct {
	Email string `json:"email"`
}
type resetReq struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// forgotMessage is returned for every forgot-password call, known email
// or not, so the endpoint cannot be used to probe which addresses exist.
const forgotMessage = "if the email exists, a reset link has been sent"

// ForgotPassword: start the reset flow. Unknown emails get the same
// 200 response as known ones.
func (h *PasswordHandler) ForgotPassword(c echo.Context) error {
	var req forgotReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Svc.ForgotPassword(ctx, req.Email); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "request failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": forgotMessage})
}

// ResetPassword: consume the reset token and set the new password.
func (h *PasswordHandler) ResetPassword(c echo.Context) error {
	var req resetReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Token = strings.TrimSpace(req.Token)
	if req.Token == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "token/password required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Svc.ResetPassword(ctx, req.Token, req.Password); err != nil {
		if errors.Is(err, auth.ErrInvalidOrExpiredToken) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid or expired token"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reset failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "password updated"})
}
