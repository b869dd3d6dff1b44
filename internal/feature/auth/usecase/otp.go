package usecase

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"authvault_backend/internal/feature/auth/domain"
	"authvault_backend/internal/feature/auth/domain/entity"
)

const (
	// otpMin / otpMax は6桁OTPコードの範囲を定義します。
	otpMin = 100000
	otpMax = 999999

	// verifyOtpTTL はメール確認コードの有効期間です。
	verifyOtpTTL = 24 * time.Hour
	// resetOtpTTL はパスワードリセットコードの有効期間です。
	resetOtpTTL = 15 * time.Minute
)

// OtpManager は時間制限付きワンタイムコードの発行と消費を実装します。
// コードはレコードのOTPスロットに保存され、消費成功時にのみクリアされます。
// 期限切れコードは失敗チェックでは自動クリアせず、次回の発行成功または
// 消費成功時にのみ上書き・クリアされます（失敗チェックが古いコードの寿命を
// 延ばさないための仕様）。
type OtpManager struct {
	verifyTTL time.Duration
	resetTTL  time.Duration
}

// NewOtpManager はデフォルトの有効期間（確認24時間、リセット15分）で
// OtpManagerの新しいインスタンスを生成します。
func NewOtpManager() *OtpManager {
	return &OtpManager{
		verifyTTL: verifyOtpTTL,
		resetTTL:  resetOtpTTL,
	}
}

// generateOtp は[100000, 999999]の一様乱数から6桁の数字コードを生成します。
// 予測不能性が必要なためcrypto/randを使用します。
func generateOtp() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpMax-otpMin+1))
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}
	return strconv.FormatInt(n.Int64()+otpMin, 10), nil
}

// IssueVerificationCode はメール確認コードを発行し、レコードの確認スロットに
// 設定します。既に確認済みのアカウントにはノーオップで空文字を返します。
func (m *OtpManager) IssueVerificationCode(u *entity.User, now time.Time) (string, error) {
	if u.IsVerified {
		return "", nil
	}

	code, err := generateOtp()
	if err != nil {
		return "", err
	}

	u.VerifyOtp = code
	u.VerifyOtpExpiresAt = now.Add(m.verifyTTL)
	return code, nil
}

// IssueResetCode はパスワードリセットコードを発行し、レコードのリセット
// スロットに設定します。未確認アカウントでも発行できます。
func (m *OtpManager) IssueResetCode(u *entity.User, now time.Time) (string, error) {
	code, err := generateOtp()
	if err != nil {
		return "", err
	}

	u.ResetOtp = code
	u.ResetOtpExpiresAt = now.Add(m.resetTTL)
	return code, nil
}

// ConsumeVerificationCode は確認スロットのコードを検証し、成功時に両フィールドを
// クリアします。IsVerifiedの更新は呼び出し側の責務です。
// - コード未発行または不一致: domain.ErrInvalidOtp（コードは保持）
// - 期限切れ: domain.ErrExpiredOtp（コードは保持）
func (m *OtpManager) ConsumeVerificationCode(u *entity.User, code string, now time.Time) error {
	if u.VerifyOtp == "" || u.VerifyOtp != code {
		return domain.ErrInvalidOtp
	}
	if now.After(u.VerifyOtpExpiresAt) {
		return domain.ErrExpiredOtp
	}

	u.VerifyOtp = ""
	u.VerifyOtpExpiresAt = time.Time{}
	return nil
}

// ConsumeResetCode はリセットスロットのコードを検証し、成功時に両フィールドを
// クリアします。パスワードハッシュの更新は呼び出し側の責務です。
func (m *OtpManager) ConsumeResetCode(u *entity.User, code string, now time.Time) error {
	if u.ResetOtp == "" || u.ResetOtp != code {
		return domain.ErrInvalidOtp
	}
	if now.After(u.ResetOtpExpiresAt) {
		return domain.ErrExpiredOtp
	}

	u.ResetOtp = ""
	u.ResetOtpExpiresAt = time.Time{}
	return nil
}
