package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuthenticator(t *testing.T, ttl time.Duration) *Authenticator {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("CompDemo2025"), bcrypt.MinCost)
	require.NoError(t, err)
	a, err := NewAuthenticator("", string(hash), ttl)
	require.NoError(t, err)
	return a
}

func TestNewAuthenticator(t *testing.T) {
	t.Run("Plaintext", func(t *testing.T) {
		a, err := NewAuthenticator("secret", "", time.Hour)
		require.NoError(t, err)
		_, err = a.Login("secret")
		require.NoError(t, err)
	})

	t.Run("BadHash", func(t *testing.T) {
		_, err := NewAuthenticator("", "not-a-hash", time.Hour)
		require.Error(t, err)
	})

	t.Run("NoCredential", func(t *testing.T) {
		_, err := NewAuthenticator("", "", time.Hour)
		require.Error(t, err)
	})
}

func TestLogin(t *testing.T) {
	a := newTestAuthenticator(t, time.Hour)

	for _, wrong := range []string{"", "compdemo2025", "CompDemo2025 ", "CompDemo202"} {
		_, err := a.Login(wrong)
		require.ErrorIs(t, err, ErrInvalidCredentials, "password %q", wrong)
	}

	s1, err := a.Login("CompDemo2025")
	require.NoError(t, err)
	s2, err := a.Login("CompDemo2025")
	require.NoError(t, err)
	assert.NotEqual(t, s1.Token, s2.Token)
	assert.Len(t, s1.Token, 64)
	assert.Equal(t, 2, a.ActiveSessions())

	got, err := a.Verify(s1.Token)
	require.NoError(t, err)
	assert.Equal(t, s1, got)

	a.Logout(s1.Token)
	_, err = a.Verify(s1.Token)
	require.ErrorIs(t, err, ErrUnauthorized)
	_, err = a.Verify(s2.Token)
	require.NoError(t, err)
}

func TestSessionExpiry(t *testing.T) {
	a := newTestAuthenticator(t, time.Minute)
	now := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	a.now = func() time.Time { return now }

	s, err := a.Login("CompDemo2025")
	require.NoError(t, err)

	now = now.Add(59 * time.Second)
	_, err = a.Verify(s.Token)
	require.NoError(t, err)

	now = now.Add(time.Second)
	_, err = a.Verify(s.Token)
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, 0, a.ActiveSessions())
}

func TestContext(t *testing.T) {
	_, ok := FromContext(context.Background())
	require.False(t, ok)

	s := Session{ID: "abc"}
	got, ok := FromContext(WithSession(context.Background(), s))
	require.True(t, ok)
	require.Equal(t, s, got)
}

func TestMiddleware(t *testing.T) {
	a := newTestAuthenticator(t, time.Hour)
	s, err := a.Login("CompDemo2025")
	require.NoError(t, err)

	e := echo.New()
	e.Use(Middleware(a))
	e.GET("/api/ping", func(c echo.Context) error {
		sess, ok := FromContext(c.Request().Context())
		if !ok {
			return c.String(http.StatusInternalServerError, "no session")
		}
		return c.String(http.StatusOK, sess.ID)
	})

	tests := []struct {
		name   string
		setup  func(r *http.Request)
		status int
	}{
		{"NoToken", func(r *http.Request) {}, http.StatusUnauthorized},
		{"BadToken", func(r *http.Request) { r.Header.Set(echo.HeaderAuthorization, "Bearer nope") }, http.StatusUnauthorized},
		{"NotBearer", func(r *http.Request) { r.Header.Set(echo.HeaderAuthorization, s.Token) }, http.StatusUnauthorized},
		{"Bearer", func(r *http.Request) { r.Header.Set(echo.HeaderAuthorization, "Bearer "+s.Token) }, http.StatusOK},
		{"Cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: CookieName, Value: s.Token}) }, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
			tt.setup(req)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			require.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				require.Equal(t, s.ID, rec.Body.String())
			}
		})
	}
}
