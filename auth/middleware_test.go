package auth

import (
	"net/http"
	"net/http/httptest"
	"pawmatch/domain"
	"pawmatch/errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMiddleware(t *testing.T) {
	tokens := NewTokenService("test-secret-which-is-long-enough", time.Hour)
	var seen domain.UserID
	handler := Middleware(tokens, func(w http.ResponseWriter, err error) {
		require.ErrorIs(t, err, errors.ErrUnauthenticated)
		w.WriteHeader(http.StatusUnauthorized)
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := UserIDFrom(r.Context())
		require.NoError(t, err)
		seen = userID
		w.WriteHeader(http.StatusNoContent)
	}))
	valid, err := tokens.Generate("user-123", []string{"user"})
	require.NoError(t, err)
	foreign, err := NewTokenService("another-secret-entirely-different", time.Hour).Generate("user-123", nil)
	require.NoError(t, err)
	expired, err := NewTokenService("test-secret-which-is-long-enough", -time.Minute).Generate("user-123", nil)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		query  string
		status int
	}{
		{"missing token", "", "", http.StatusUnauthorized},
		{"garbage token", "Bearer invalid-token-string", "", http.StatusUnauthorized},
		{"not a bearer", "Basic dXNlcjpwYXNz", "", http.StatusUnauthorized},
		{"signed with another secret", "Bearer " + foreign, "", http.StatusUnauthorized},
		{"expired", "Bearer " + expired, "", http.StatusUnauthorized},
		{"header", "Bearer " + valid, "", http.StatusNoContent},
		{"query parameter for websocket", "", "?token=" + valid, http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = ""
			r := httptest.NewRequest(http.MethodGet, "/ws"+tt.query, nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, r)

			require.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusNoContent {
				require.Equal(t, domain.UserID("user-123"), seen)
			}
		})
	}
}
