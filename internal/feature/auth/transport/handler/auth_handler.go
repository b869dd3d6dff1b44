// Package handler はauthフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"authvault_backend/internal/feature/auth/domain"
	"authvault_backend/internal/feature/auth/domain/entity"
	"authvault_backend/internal/feature/auth/transport/http/dto"
	"authvault_backend/internal/platform/token"
)

// sessionCookieMaxAge はセッションクッキーの有効期間（秒）です。
// トークン自体の有効期間（24時間）と揃えます。
const sessionCookieMaxAge = 24 * 60 * 60

// AuthUsecase は認証・OTPライフサイクルのユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AuthUsecase interface {
	// Register は指定されたメールアドレス・表示名・パスワードで新規ユーザーを登録します。
	Register(ctx context.Context, email, name, password string) (*entity.User, error)
	// Login はユーザーを認証し、成功時にセッショントークンを返します。
	Login(ctx context.Context, email, password string) (string, error)
	// FederatedLogin は外部IDプロバイダーのプロフィールでログインします。
	FederatedLogin(ctx context.Context, profile entity.ExternalProfile) (string, error)
	// RequestVerificationOtp はメール確認コードを発行して送信します。
	RequestVerificationOtp(ctx context.Context, email string) error
	// ConfirmVerificationOtp はメール確認コードを消費して確認済みに遷移させます。
	ConfirmVerificationOtp(ctx context.Context, email, code string) error
	// RequestPasswordReset はパスワードリセットコードを発行して送信します。
	RequestPasswordReset(ctx context.Context, email string) error
	// ConfirmPasswordReset はリセットコードを消費して新パスワードを保存します。
	ConfirmPasswordReset(ctx context.Context, email, code, newPassword string) error
	// Profile はユーザーレコードを取得します。
	Profile(ctx context.Context, email string) (*entity.User, error)
}

// AuthHandler は認証操作のHTTPリクエストを処理します。
// AuthUsecaseインターフェースに依存し、JSONリクエスト/レスポンスを処理します。
type AuthHandler struct {
	auth      AuthUsecase
	validator token.Validator
}

// NewAuthHandler はAuthHandlerの新しいインスタンスを生成します。
// 依存性注入用のコンストラクタで、外部からAuthUsecaseとトークン検証器を注入します。
func NewAuthHandler(auth AuthUsecase, validator token.Validator) *AuthHandler {
	return &AuthHandler{auth: auth, validator: validator}
}

// setSessionCookie はセッショントークンをクッキーに設定します。
// フロントエンドとAPIが別オリジンのためSameSite=Noneが必要で、
// その条件としてSecureを常に有効にします。
func setSessionCookie(c *gin.Context, tokenStr string, maxAge int) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(token.CookieName, tokenStr, maxAge, "/", "", true, true)
}

// sessionEmail は認証ミドルウェアが設定したメールアドレスを取得します。
func sessionEmail(c *gin.Context) (string, bool) {
	email := c.GetString(token.ContextEmail)
	return email, email != ""
}

// profileResponse はユーザーレコードを公開用レスポンスに変換します。
func profileResponse(u *entity.User) dto.ProfileRes {
	return dto.ProfileRes{
		UserID:     u.UserID,
		Email:      u.Email,
		Name:       u.Name,
		IsVerified: u.IsVerified,
	}
}

// Register はユーザー登録APIエンドポイントを処理します。
// - リクエストJSONをRegisterReqにバインド
// - バリデーションエラー時は400を返却
// - メールアドレス重複時は409を返却
// - 成功時は201でプロフィールを返却
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("register validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: "invalid request"})
		return
	}

	user, err := h.auth.Register(c.Request.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrEmailAlreadyExists) {
			slog.Warn("register conflict", "email", req.Email, "remote_addr", c.ClientIP())
			c.JSON(http.StatusConflict, dto.ErrorRes{Error: "email already in use"})
			return
		}
		slog.Error("register failed", "error", err, "email", req.Email, "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, dto.ErrorRes{Error: "registration failed"})
		return
	}

	slog.Info("user registered", "email", user.Email, "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, profileResponse(user))
}

// Login はユーザーログインAPIエンドポイントを処理します。
// 成功時はセッションクッキーを設定し、トークン付きで200を返却します。
// メールアドレスの存在有無は漏らしません。
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("login validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: "invalid request"})
		return
	}

	tokenStr, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAccountDisabled):
			slog.Warn("login rejected: account disabled", "email", req.Email, "remote_addr", c.ClientIP())
			c.JSON(http.StatusUnauthorized, dto.ErrorRes{Error: "account is disabled"})
		case errors.Is(err, domain.ErrInvalidCredentials):
			slog.Warn("login failed", "email", req.Email, "remote_addr", c.ClientIP())
			c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: "invalid email or password"})
		default:
			slog.Error("login failed", "error", err, "remote_addr", c.ClientIP())
			c.JSON(http.StatusInternalServerError, dto.ErrorRes{Error: "authorization failed"})
		}
		return
	}

	setSessionCookie(c, tokenStr, sessionCookieMaxAge)
	slog.Info("user login successful", "email", req.Email, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, dto.LoginRes{Email: req.Email, Token: tokenStr})
}

// Logout はセッションクッキーを破棄します。トークンはステートレスなため
// サーバー側の無効化はなく、有効なセッションが無くても常に成功します。
func (h *AuthHandler) Logout(c *gin.Context) {
	setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, dto.MessageRes{Message: "logged out"})
}

// IsAuthenticated は提示されたトークンの有効性を返します。
// 未認証でも401ではなくfalseを返します。
func (h *AuthHandler) IsAuthenticated(c *gin.Context) {
	tokenStr := token.FromRequest(c)
	if tokenStr == "" {
		c.JSON(http.StatusOK, dto.AuthenticatedRes{Authenticated: false})
		return
	}
	_, err := h.validator.Validate(tokenStr)
	c.JSON(http.StatusOK, dto.AuthenticatedRes{Authenticated: err == nil})
}

// SendVerifyOtp はログイン中のユーザーにメール確認コードを送信します。
// 既に確認済みの場合は何も送らず成功を返します。
func (h *AuthHandler) SendVerifyOtp(c *gin.Context) {
	email, ok := sessionEmail(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.ErrorRes{Error: "missing token"})
		return
	}

	if err := h.auth.RequestVerificationOtp(c.Request.Context(), email); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorRes{Error: "user not found"})
			return
		}
		slog.Error("send verify otp failed", "error", err, "email", email)
		c.JSON(http.StatusInternalServerError, dto.ErrorRes{Error: "failed to send otp"})
		return
	}

	c.JSON(http.StatusOK, dto.MessageRes{Message: "otp sent"})
}

// VerifyOtp はメール確認コードを検証し、アカウントを確認済みに遷移させます。
// 無効と期限切れはクライアントが案内を変えられるよう区別して返しますが、
// 保存されているコード値は決して開示しません。
func (h *AuthHandler) VerifyOtp(c *gin.Context) {
	email, ok := sessionEmail(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.ErrorRes{Error: "missing token"})
		return
	}

	var req dto.VerifyOtpReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: "invalid request"})
		return
	}

	if err := h.auth.ConfirmVerificationOtp(c.Request.Context(), email, req.Otp); err != nil {
		switch {
		case errors.Is(err, domain.ErrExpiredOtp):
			c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: "otp has expired"})
		case errors.Is(err, domain.ErrInvalidOtp):
			c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: "invalid otp"})
		case errors.Is(err, domain.ErrUserNotFound):
			c.JSON(http.StatusNotFound, dto.ErrorRes{Error: "user not found"})
		default:
			slog.Error("verify otp failed", "error", err, "email", email)
			c.JSON(http.StatusInternalServerError, dto.ErrorRes{Error: "verification failed"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.MessageRes{Message: "email verified"})
}

// SendResetOtp はパスワードリセットコードを発行して送信します。
func (h *AuthHandler) SendResetOtp(c *gin.Context) {
	var req dto.SendResetOtpReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: "invalid request"})
		return
	}

	if err := h.auth.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorRes{Error: "user not found"})
			return
		}
		slog.Error("send reset otp failed", "error", err, "email", req.Email)
		c.JSON(http.StatusInternalServerError, dto.ErrorRes{Error: "failed to send otp"})
		return
	}

	c.JSON(http.StatusOK, dto.MessageRes{Message: "otp sent"})
}

// ResetPassword はリセットコードを検証し、新しいパスワードを保存します。
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: "invalid request"})
		return
	}

	if err := h.auth.ConfirmPasswordReset(c.Request.Context(), req.Email, req.Otp, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, domain.ErrExpiredOtp):
			c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: "otp has expired"})
		case errors.Is(err, domain.ErrInvalidOtp):
			c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: "invalid otp"})
		case errors.Is(err, domain.ErrUserNotFound):
			c.JSON(http.StatusNotFound, dto.ErrorRes{Error: "user not found"})
		default:
			slog.Error("reset password failed", "error", err, "email", req.Email)
			c.JSON(http.StatusInternalServerError, dto.ErrorRes{Error: "reset failed"})
		}
		return
	}

	slog.Info("password reset successful", "email", req.Email, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, dto.MessageRes{Message: "password reset successfully"})
}

// Profile はログイン中のユーザーのプロフィールを返します。
func (h *AuthHandler) Profile(c *gin.Context) {
	email, ok := sessionEmail(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.ErrorRes{Error: "missing token"})
		return
	}

	user, err := h.auth.Profile(c.Request.Context(), email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorRes{Error: "user not found"})
			return
		}
		slog.Error("profile lookup failed", "error", err, "email", email)
		c.JSON(http.StatusInternalServerError, dto.ErrorRes{Error: "profile lookup failed"})
		return
	}

	c.JSON(http.StatusOK, profileResponse(user))
}
