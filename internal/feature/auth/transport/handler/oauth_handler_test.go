package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"authvault_backend/internal/feature/auth/domain/entity"
	"authvault_backend/internal/platform/token"
)

// mockIdentityProvider はテスト用のIdentityProviderモック実装です。
type mockIdentityProvider struct {
	authCodeURLFn  func(state string) string
	fetchProfileFn func(ctx context.Context, code string) (entity.ExternalProfile, error)
}

func (m *mockIdentityProvider) AuthCodeURL(state string) string {
	return m.authCodeURLFn(state)
}

func (m *mockIdentityProvider) FetchProfile(ctx context.Context, code string) (entity.ExternalProfile, error) {
	return m.fetchProfileFn(ctx, code)
}

func newOAuthRouter(auth AuthUsecase, provider IdentityProvider) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewOAuthHandler(auth, provider, "http://localhost:3000")
	r := gin.New()
	r.GET("/oauth2/github/login", h.Login)
	r.GET("/oauth2/github/callback", h.Callback)
	return r
}

func TestOAuthHandler_Login(t *testing.T) {
	provider := &mockIdentityProvider{
		authCodeURLFn: func(state string) string {
			return "https://github.com/login/oauth/authorize?state=" + state
		},
	}
	router := newOAuthRouter(&mockAuthUsecase{}, provider)

	req, _ := http.NewRequest(http.MethodGet, "/oauth2/github/login", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)

	ck := findCookie(t, w, stateCookieName)
	require.NotNil(t, ck, "state cookie was not set")
	assert.NotEmpty(t, ck.Value)
	assert.True(t, ck.HttpOnly)

	// リダイレクト先のstateとクッキーのstateが一致すること
	assert.Contains(t, w.Header().Get("Location"), "state="+ck.Value)
}

func TestOAuthHandler_Callback(t *testing.T) {
	t.Run("successful callback sets session cookie and redirects", func(t *testing.T) {
		provider := &mockIdentityProvider{
			fetchProfileFn: func(ctx context.Context, code string) (entity.ExternalProfile, error) {
				assert.Equal(t, "auth-code", code)
				return entity.ExternalProfile{Email: "octo@example.com", Name: "Octo", Login: "octocat"}, nil
			},
		}
		auth := &mockAuthUsecase{
			federatedLoginFn: func(ctx context.Context, profile entity.ExternalProfile) (string, error) {
				assert.Equal(t, "octocat", profile.Login)
				return "federated.jwt.token", nil
			},
		}
		router := newOAuthRouter(auth, provider)

		req, _ := http.NewRequest(http.MethodGet, "/oauth2/github/callback?state=abc123&code=auth-code", nil)
		req.AddCookie(&http.Cookie{Name: stateCookieName, Value: "abc123"})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "http://localhost:3000", w.Header().Get("Location"))

		session := findCookie(t, w, token.CookieName)
		require.NotNil(t, session, "session cookie was not set")
		assert.Equal(t, "federated.jwt.token", session.Value)

		state := findCookie(t, w, stateCookieName)
		require.NotNil(t, state, "state cookie must be discarded")
		assert.Negative(t, state.MaxAge)
	})

	t.Run("state mismatch returns 400", func(t *testing.T) {
		router := newOAuthRouter(&mockAuthUsecase{}, &mockIdentityProvider{})

		req, _ := http.NewRequest(http.MethodGet, "/oauth2/github/callback?state=tampered&code=auth-code", nil)
		req.AddCookie(&http.Cookie{Name: stateCookieName, Value: "abc123"})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing state cookie returns 400", func(t *testing.T) {
		router := newOAuthRouter(&mockAuthUsecase{}, &mockIdentityProvider{})

		req, _ := http.NewRequest(http.MethodGet, "/oauth2/github/callback?state=abc123&code=auth-code", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing code returns 400", func(t *testing.T) {
		router := newOAuthRouter(&mockAuthUsecase{}, &mockIdentityProvider{})

		req, _ := http.NewRequest(http.MethodGet, "/oauth2/github/callback?state=abc123", nil)
		req.AddCookie(&http.Cookie{Name: stateCookieName, Value: "abc123"})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("profile fetch failure returns 401", func(t *testing.T) {
		provider := &mockIdentityProvider{
			fetchProfileFn: func(ctx context.Context, code string) (entity.ExternalProfile, error) {
				return entity.ExternalProfile{}, errors.New("exchange rejected")
			},
		}
		router := newOAuthRouter(&mockAuthUsecase{}, provider)

		req, _ := http.NewRequest(http.MethodGet, "/oauth2/github/callback?state=abc123&code=bad-code", nil)
		req.AddCookie(&http.Cookie{Name: stateCookieName, Value: "abc123"})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
