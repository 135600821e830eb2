package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCORSMiddleware(t *testing.T) {
	handler := CORSMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	t.Run("SetsHeadersOnNormalRequests", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/templates", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PUT")
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")
	})

	t.Run("PreflightShortCircuits", func(t *testing.T) {
		req := httptest.NewRequest("OPTIONS", "/api/v1/templates", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		// The wrapped handler writes 204; a preflight must return 200 without
		// reaching it
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("OriginOverrideFromEnv", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGIN", "https://portal.example.com")

		req := httptest.NewRequest("GET", "/api/v1/templates", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, "https://portal.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	})
}
