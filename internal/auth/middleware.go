package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/locvowork/compensation_dashboard/internal/logger"
	"github.com/locvowork/compensation_dashboard/internal/service/serviceutils"
)

// CookieName carries the session token for browser clients.
const CookieName = "dashboard_session"

// TokenFromRequest reads a bearer token, falling back to the session cookie.
func TokenFromRequest(r *http.Request) string {
	if h := r.Header.Get(echo.HeaderAuthorization); h != "" {
		if token := strings.TrimSpace(strings.TrimPrefix(h, "Bearer ")); token != h {
			return token
		}
	}
	if c, err := r.Cookie(CookieName); err == nil {
		return c.Value
	}
	return ""
}

// Middleware rejects requests without a valid session and stores the session in the
// request context, along with a logger tagged with the session ID.
func Middleware(a *Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			s, err := a.Verify(TokenFromRequest(req))
			if err != nil {
				return serviceutils.ResponseError(c, http.StatusUnauthorized, "Please log in to access the dashboard", err)
			}

			ctx := WithSession(req.Context(), s)
			ctx = logger.WithLogger(ctx, map[string]interface{}{"session_id": s.ID})
			c.SetRequest(req.WithContext(ctx))
			return next(c)
		}
	}
}
