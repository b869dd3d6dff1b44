package handler

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"authvault_backend/internal/feature/auth/domain/entity"
	"authvault_backend/internal/feature/auth/transport/http/dto"
)

// stateCookieName はCSRF防止用のOAuth2 stateを保持するクッキー名です。
const stateCookieName = "oauth_state"

// IdentityProvider は外部IDプロバイダーへのブリッジを定義します。
// プロバイダーはメール・表示名・ログイン名の組を返すことのみを期待されます。
type IdentityProvider interface {
	// AuthCodeURL はユーザーをリダイレクトさせる認可URLを返します。
	AuthCodeURL(state string) string
	// FetchProfile は認可コードを交換してプロフィールを取得します。
	FetchProfile(ctx context.Context, code string) (entity.ExternalProfile, error)
}

// OAuthHandler は連携ログインのHTTPリクエストを処理します。
type OAuthHandler struct {
	auth        AuthUsecase
	provider    IdentityProvider
	frontendURL string
}

// NewOAuthHandler はOAuthHandlerの新しいインスタンスを生成します。
// frontendURLはコールバック成功後のリダイレクト先です。
func NewOAuthHandler(auth AuthUsecase, provider IdentityProvider, frontendURL string) *OAuthHandler {
	return &OAuthHandler{auth: auth, provider: provider, frontendURL: frontendURL}
}

// newState はCSRF防止用のランダムなstate値を生成します。
func newState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// Login はユーザーをプロバイダーの認可ページへリダイレクトします。
func (h *OAuthHandler) Login(c *gin.Context) {
	state, err := newState()
	if err != nil {
		slog.Error("failed to generate oauth state", "error", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorRes{Error: "oauth unavailable"})
		return
	}

	// stateはコールバックで照合するため短命クッキーに保持する
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(stateCookieName, state, 300, "/", "", true, true)

	c.Redirect(http.StatusFound, h.provider.AuthCodeURL(state))
}

// Callback は認可コードを受け取り、連携ログインを完了させます。
// 成功時はセッションクッキーを設定してフロントエンドへリダイレクトします。
func (h *OAuthHandler) Callback(c *gin.Context) {
	state := c.Query("state")
	saved, err := c.Cookie(stateCookieName)
	if err != nil || state == "" || state != saved {
		slog.Warn("oauth state mismatch", "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: "invalid oauth state"})
		return
	}
	// stateクッキーは使い捨て
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(stateCookieName, "", -1, "/", "", true, true)

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: "missing authorization code"})
		return
	}

	profile, err := h.provider.FetchProfile(c.Request.Context(), code)
	if err != nil {
		slog.Error("oauth profile fetch failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusUnauthorized, dto.ErrorRes{Error: "oauth login failed"})
		return
	}

	tokenStr, err := h.auth.FederatedLogin(c.Request.Context(), profile)
	if err != nil {
		slog.Error("federated login failed", "error", err, "login", profile.Login)
		c.JSON(http.StatusInternalServerError, dto.ErrorRes{Error: "oauth login failed"})
		return
	}

	setSessionCookie(c, tokenStr, sessionCookieMaxAge)
	slog.Info("federated login successful", "login", profile.Login)
	c.Redirect(http.StatusFound, h.frontendURL)
}
