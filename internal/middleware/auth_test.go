package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/avlebedev/finops-service/internal/config"
)

func signedToken(t *testing.T, secret, subject string, ttl time.Duration) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func runMiddleware(cfg *config.Config, authHeader string) (*httptest.ResponseRecorder, string) {
	var gotUserID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = r.Context().Value("userID").(string)
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/dashboard/metrics", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	AuthMiddleware(cfg)(next).ServeHTTP(rec, req)
	return rec, gotUserID
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret"}
	rec, userID := runMiddleware(cfg, "Bearer "+signedToken(t, "test-secret", "42", time.Hour))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "42", userID)
}

func TestAuthMiddlewareRejects(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret"}

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not.a.token"},
		{"wrong secret", "Bearer " + signedToken(t, "other-secret", "42", time.Hour)},
		{"expired", "Bearer " + signedToken(t, "test-secret", "42", -time.Hour)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := runMiddleware(cfg, tt.header)
			require.Equal(t, http.StatusUnauthorized, rec.Code)

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			require.Equal(t, false, body["success"])
			require.Equal(t, "Unauthorized", body["error"])
		})
	}
}
