package router

import (
	"github.com/gin-gonic/gin"

	authhandler "authvault_backend/internal/feature/auth/transport/handler"
	"authvault_backend/internal/platform/http/handler"
	"authvault_backend/internal/platform/token"
)

// NewRouter は全ルートを登録したginエンジンを生成します。
// oauthはプロバイダー未設定時nilを許容し、その場合連携ルートは登録されません。
func NewRouter(auth *authhandler.AuthHandler, oauth *authhandler.OAuthHandler,
	validator token.Validator) *gin.Engine {
	r := gin.Default()

	// 認証不要
	// 導通確認用
	r.GET("/healthz", handler.Health)
	// 新規ユーザー登録
	r.POST("/register", auth.Register)
	// ログイン（セッショントークン発行）
	r.POST("/login", auth.Login)
	// ログアウト（クッキー破棄のみ、常に成功）
	r.POST("/logout", auth.Logout)
	// トークン有効性の確認（未認証でも200でfalseを返す）
	r.GET("/is-authenticated", auth.IsAuthenticated)
	// パスワードリセットのコード発行・確定
	r.POST("/send-reset-otp", auth.SendResetOtp)
	r.POST("/reset-password", auth.ResetPassword)

	// 連携ログイン（プロバイダー設定時のみ）
	if oauth != nil {
		r.GET("/oauth2/github/login", oauth.Login)
		r.GET("/oauth2/github/callback", oauth.Callback)
	}

	// 認証必須のルート
	authorized := r.Group("/")
	authorized.Use(token.AuthRequired(validator))
	{
		// メール確認コードの発行・確定
		authorized.POST("/send-otp", auth.SendVerifyOtp)
		authorized.POST("/verify-otp", auth.VerifyOtp)
		// プロフィール取得
		authorized.GET("/profile", auth.Profile)
	}

	return r
}
