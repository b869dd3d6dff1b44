package token

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newProtectedRouter は認証必須の/meエンドポイントを持つテスト用ルータを生成します。
func newProtectedRouter(v Validator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", AuthRequired(v), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"email": c.GetString(ContextEmail)})
	})
	return r
}

func TestAuthRequired(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)
	router := newProtectedRouter(issuer)

	validToken, err := issuer.Issue("user@example.com")
	require.NoError(t, err)

	t.Run("missing token", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/me", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("bearer token accepted", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+validToken)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "user@example.com")
	})

	t.Run("cookie accepted", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/me", nil)
		req.AddCookie(&http.Cookie{Name: CookieName, Value: validToken})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "user@example.com")
	})

	t.Run("header wins over cookie", func(t *testing.T) {
		headerToken, err := issuer.Issue("header@example.com")
		require.NoError(t, err)

		req, _ := http.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+headerToken)
		req.AddCookie(&http.Cookie{Name: CookieName, Value: validToken})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "header@example.com")
	})

	t.Run("invalid token", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		expired, err := NewIssuer("test-secret", -time.Hour).Issue("user@example.com")
		require.NoError(t, err)

		req, _ := http.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+expired)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
