package api_test

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipebox/backend/internal/types"
)

func TestLogin(t *testing.T) {
	env := setupTestRouter(t, false)

	t.Run("success", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/login",
			strings.NewReader(`{"email":"free@example.com","password":"free123"}`), "application/json", "")
		require.Equal(t, http.StatusOK, w.Code)

		var resp types.LoginResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		claims, err := env.authSvc.ValidateToken(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, "free", claims.Role)
	})

	t.Run("wrong password and unknown email look the same", func(t *testing.T) {
		wrong := env.do(t, http.MethodPost, "/api/login",
			strings.NewReader(`{"email":"free@example.com","password":"nope"}`), "application/json", "")
		unknown := env.do(t, http.MethodPost, "/api/login",
			strings.NewReader(`{"email":"ghost@example.com","password":"free123"}`), "application/json", "")

		assert.Equal(t, http.StatusUnauthorized, wrong.Code)
		assert.Equal(t, http.StatusUnauthorized, unknown.Code)
		assert.Equal(t, wrong.Body.String(), unknown.Body.String())
		assert.Equal(t, "Invalid email or password", message(t, wrong))
	})

	t.Run("malformed body", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/login", strings.NewReader(`{"email":`), "application/json", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = env.do(t, http.MethodPost, "/api/login", strings.NewReader(`{"email":"free@example.com"}`), "application/json", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("wrong method", func(t *testing.T) {
		for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
			w := env.do(t, method, "/api/login", nil, "", "")
			assert.Equal(t, http.StatusMethodNotAllowed, w.Code, method)
			assert.Equal(t, http.MethodPost, w.Header().Get("Allow"), method)
			assert.Equal(t, "Method "+method+" Not Allowed", message(t, w))
		}
	})
}
