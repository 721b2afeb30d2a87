package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

const testToken = "sweep-trigger-secret-token"

func protectedHandler(t *testing.T, called *bool) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticateValidToken(t *testing.T) {
	t.Parallel()

	var called bool
	m := NewAuthMiddleware(testToken, nil)
	handler := m.Authenticate(protectedHandler(t, &called))

	req := httptest.NewRequest(http.MethodPost, "/api/check-reminders", nil)
	req.Header.Set("Authorization", "Bearer "+testToken)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
}

func TestAuthenticateRejections(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic " + testToken},
		{"wrong token", "Bearer not-the-token"},
		{"empty token", "Bearer "},
		{"no scheme", testToken},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var called bool
			m := NewAuthMiddleware(testToken, nil)
			handler := m.Authenticate(protectedHandler(t, &called))

			req := httptest.NewRequest(http.MethodPost, "/api/check-reminders", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.False(t, called, "handler must not run without a valid token")
		})
	}
}

func TestAuthenticateCaseInsensitiveScheme(t *testing.T) {
	t.Parallel()

	var called bool
	m := NewAuthMiddleware(testToken, nil)
	handler := m.Authenticate(protectedHandler(t, &called))

	req := httptest.NewRequest(http.MethodPost, "/api/check-reminders", nil)
	req.Header.Set("Authorization", "bearer "+testToken)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNewAuthMiddlewareRequiresToken(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { NewAuthMiddleware("", nil) })
}
