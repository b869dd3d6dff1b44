package dto

// VerifyOtpReq は/verify-otpエンドポイントのリクエストボディを表します。
// メールアドレスは認証済みセッションから取得するためボディには含まれません。
type VerifyOtpReq struct {
	Otp string `json:"otp" binding:"required,len=6,numeric"`
}

// SendResetOtpReq は/send-reset-otpエンドポイントのリクエストボディを表します。
type SendResetOtpReq struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordReq は/reset-passwordエンドポイントのリクエストボディを表します。
type ResetPasswordReq struct {
	Email       string `json:"email" binding:"required,email"`
	Otp         string `json:"otp" binding:"required,len=6,numeric"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}
