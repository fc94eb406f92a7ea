package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/IEC2025/UeabInnovationHub-sub000/internal/auth"
)

func newEngine(t *testing.T) (*gin.Engine, *auth.Authenticator) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hash, err := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	require.NoError(t, err)
	a, err := auth.NewAuthenticator(auth.Config{Username: "admin", PasswordHash: string(hash), Secret: "k"})
	require.NoError(t, err)

	logger := zerolog.Nop()
	r := gin.New()
	r.Use(LoggingMiddleware(&logger), MetricsMiddleware())
	r.GET("/open", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })
	r.GET("/admin", AdminAuth(a), func(c *gin.Context) { c.String(http.StatusOK, c.GetString(AdminSubjectKey)) })
	return r, a
}

func TestLoggingMiddleware_RequestID(t *testing.T) {
	r, _ := newEngine(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/open", nil))
	generated := rec.Header().Get(RequestIDHeader)
	assert.NotEmpty(t, generated)
	assert.Equal(t, generated, rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestAdminAuth(t *testing.T) {
	r, a := newEngine(t)
	token, _, err := a.Login("admin", "pw")
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
		{"valid", "Bearer " + token, http.StatusOK},
		{"lowercase scheme", "bearer " + token, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			assert.Equal(t, tc.want, rec.Code)
			if tc.want == http.StatusOK {
				assert.Equal(t, "admin", rec.Body.String())
			}
		})
	}
}

func TestAdminAuth_ExpiredToken(t *testing.T) {
	r, _ := newEngine(t)
	hash, _ := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	short, err := auth.NewAuthenticator(auth.Config{Username: "admin", PasswordHash: string(hash), Secret: "k", TokenTTL: time.Nanosecond})
	require.NoError(t, err)
	token, _, err := short.Login("admin", "pw")
	require.NoError(t, err)
	time.Sleep(1100 * time.Millisecond)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
