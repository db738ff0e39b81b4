package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // Echo web framework for routing

	"github.com/consolehq/auth-service/internal/auth"
	"github.com/consolehq/auth-service/internal/handler"
	"github.com/consolehq/auth-service/internal/middleware"
	"github.com/consolehq/auth-service/internal/model"
)

// RegisterRoutes registers routes that require neither authentication
// nor a deployment mode: currently just the health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// AuthDeps bundles everything the JWT-mode routes need. RateLimit may
// be nil (no Redis); the group is then unthrottled.
type AuthDeps struct {
	Auth      *handler.AuthHandler
	Password  *handler.PasswordHandler
	Email     *handler.EmailHandler
	JWT       echo.MiddlewareFunc
	RateLimit echo.MiddlewareFunc
}

// RegisterAuth mounts the JWT-mode surface. Unauthenticated flows live
// under /v1/auth behind the rate limiter; endpoints needing a valid
// access token live under /v1 behind the JWT middleware (which also
// rejects blacklisted tokens) and the role guard.
func RegisterAuth(e *echo.Echo, d AuthDeps) {
	g := e.Group("/v1/auth")
	if d.RateLimit != nil {
		g.Use(d.RateLimit)
	}
	g.POST("/register", d.Auth.Register)
	g.POST("/login", d.Auth.Login)
	// Rotates the refresh token: the presented token is revoked in the
	// same call that validates it.
	g.POST("/refresh", d.Auth.Refresh)
	g.POST("/forgot-password", d.Password.ForgotPassword)
	g.POST("/reset-password", d.Password.ResetPassword)
	g.GET("/verify-email/:token", d.Email.VerifyEmail)

	protected := e.Group("/v1")
	protected.Use(d.JWT)
	protected.Use(middleware.RequireRole(model.RoleAdmin, model.RoleUser))
	protected.GET("/me", d.Auth.Me)
	protected.POST("/auth/logout", d.Auth.Logout)
	protected.POST("/auth/resend-verification", d.Email.ResendVerification)
}

// SessionDeps bundles the session-mode routes' needs.
type SessionDeps struct {
	Session   *handler.SessionHandler
	Auth      *handler.AuthHandler
	Password  *handler.PasswordHandler
	Svc       *auth.Service
	RateLimit echo.MiddlewareFunc
}

// RegisterSession mounts the session-mode surface: one opaque token is
// the sole bearer credential, looked up in the session store on every
// request. Logout is intentionally outside the session middleware so it
// stays best effort. The password flows are credential-independent and
// are mounted here too.
func RegisterSession(e *echo.Echo, d SessionDeps) {
	g := e.Group("/v1/session")
	if d.RateLimit != nil {
		g.Use(d.RateLimit)
	}
	g.POST("/login", d.Session.Login)
	e.POST("/v1/session/logout", d.Session.Logout)

	pw := e.Group("/v1/auth")
	if d.RateLimit != nil {
		pw.Use(d.RateLimit)
	}
	pw.POST("/forgot-password", d.Password.ForgotPassword)
	pw.POST("/reset-password", d.Password.ResetPassword)

	protected := e.Group("/v1")
	protected.Use(middleware.SessionAuth(d.Svc))
	protected.Use(middleware.RequireRole(model.RoleAdmin, model.RoleUser))
	protected.GET("/me", d.Auth.Me)
}
