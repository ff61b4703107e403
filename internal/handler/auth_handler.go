package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/locvowork/compensation_dashboard/internal/auth"
	"github.com/locvowork/compensation_dashboard/internal/logger"
	"github.com/locvowork/compensation_dashboard/internal/service/serviceutils"
)

// LoginRecorder counts login attempts. *observability.Metrics implements it.
type LoginRecorder interface {
	Login(success bool)
}

type AuthHandler struct {
	auth     *auth.Authenticator
	recorder LoginRecorder
}

func NewAuthHandler(a *auth.Authenticator, recorder LoginRecorder) *AuthHandler {
	return &AuthHandler{auth: a, recorder: recorder}
}

func (h *AuthHandler) LoginHandler(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid request body", err)
	}

	s, err := h.auth.Login(req.Password)
	if h.recorder != nil {
		h.recorder.Login(err == nil)
	}
	if errors.Is(err, auth.ErrInvalidCredentials) {
		return serviceutils.ResponseError(c, http.StatusUnauthorized, "Incorrect password", err)
	}
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "Failed to start session", err)
	}

	c.SetCookie(&http.Cookie{
		Name:     auth.CookieName,
		Value:    s.Token,
		Path:     "/",
		Expires:  s.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	logger.InfoLog(c.Request().Context(), "Session %s started", s.ID)

	return serviceutils.ResponseSuccess(c, http.StatusOK, "Logged in successfully", LoginResponse{
		Token:     s.Token,
		ExpiresAt: s.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

func (h *AuthHandler) LogoutHandler(c echo.Context) error {
	h.auth.Logout(auth.TokenFromRequest(c.Request()))
	c.SetCookie(&http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Logged out successfully", nil)
}
