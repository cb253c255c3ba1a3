package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func authedHandler(apiKey string) http.Handler {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return Auth(apiKey)(next)
}

func TestAuth(t *testing.T) {
	t.Run("empty key disables auth", func(t *testing.T) {
		rec := httptest.NewRecorder()
		authedHandler("").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing key is rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		authedHandler("secret").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong key is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
		req.Header.Set("X-API-Key", "nope")
		rec := httptest.NewRecorder()
		authedHandler("secret").ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("bearer token is accepted", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
		req.Header.Set("Authorization", "Bearer secret")
		rec := httptest.NewRecorder()
		authedHandler("secret").ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("x-api-key header is accepted", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
		req.Header.Set("X-API-Key", "secret")
		rec := httptest.NewRecorder()
		authedHandler("secret").ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
