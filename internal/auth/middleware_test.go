package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(t *testing.T, method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func protected(secret string) (http.Handler, *string) {
	var seen string
	h := AdminAuthMiddleware(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = AdminEmail(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))
	return h, &seen
}

func TestAdminAuthMiddlewareAcceptsValidToken(t *testing.T) {
	h, seen := protected("secret")
	tok := sign(t, jwt.SigningMethodHS256, []byte("secret"), jwt.MapClaims{
		"sub":   "admin",
		"email": "admin@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodDelete, "/admin/events/evt-1", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "admin@example.com", *seen)
}

func TestAdminAuthMiddlewareRejects(t *testing.T) {
	valid := jwt.MapClaims{"sub": "admin", "exp": time.Now().Add(time.Hour).Unix()}
	cases := map[string]string{
		"missing header": "",
		"not bearer":     "Basic abc",
		"garbage":        "Bearer not.a.jwt",
		"wrong secret":   "Bearer " + sign(t, jwt.SigningMethodHS256, []byte("other"), valid),
		"expired":        "Bearer " + sign(t, jwt.SigningMethodHS256, []byte("secret"), jwt.MapClaims{"sub": "admin", "exp": time.Now().Add(-time.Minute).Unix()}),
		"no expiry":      "Bearer " + sign(t, jwt.SigningMethodHS256, []byte("secret"), jwt.MapClaims{"sub": "admin"}),
		"wrong subject":  "Bearer " + sign(t, jwt.SigningMethodHS256, []byte("secret"), jwt.MapClaims{"sub": "user", "exp": time.Now().Add(time.Hour).Unix()}),
		"wrong alg":      "Bearer " + sign(t, jwt.SigningMethodHS512, []byte("secret"), valid),
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			h, _ := protected("secret")
			req := httptest.NewRequest(http.MethodPatch, "/admin/events/evt-1", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.JSONEq(t, `{"success":false,"error":"Unauthorized"}`, rec.Body.String())
		})
	}
}

func TestAdminAuthMiddlewareWithoutSecret(t *testing.T) {
	h, _ := protected("")
	tok := sign(t, jwt.SigningMethodHS256, []byte("any"), jwt.MapClaims{"sub": "admin", "exp": time.Now().Add(time.Hour).Unix()})

	req := httptest.NewRequest(http.MethodDelete, "/admin/events/evt-1", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
