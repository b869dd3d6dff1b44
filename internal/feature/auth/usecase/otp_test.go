package usecase

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"authvault_backend/internal/feature/auth/domain"
	"authvault_backend/internal/feature/auth/domain/entity"
)

var otpPattern = regexp.MustCompile(`^[1-9][0-9]{5}$`)

func TestOtpManager_IssueVerificationCode(t *testing.T) {
	t.Parallel()

	t.Run("issues a 6 digit code with 24h expiry", func(t *testing.T) {
		m := NewOtpManager()
		u := &entity.User{Email: "test@example.com"}
		now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

		code, err := m.IssueVerificationCode(u, now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !otpPattern.MatchString(code) {
			t.Errorf("expected 6 digit code in [100000, 999999], got %q", code)
		}
		if u.VerifyOtp != code {
			t.Errorf("expected code stored on record, got %q", u.VerifyOtp)
		}
		if want := now.Add(24 * time.Hour); !u.VerifyOtpExpiresAt.Equal(want) {
			t.Errorf("expected expiry %v, got %v", want, u.VerifyOtpExpiresAt)
		}
	})

	t.Run("no-op when already verified", func(t *testing.T) {
		m := NewOtpManager()
		u := &entity.User{Email: "test@example.com", IsVerified: true}

		code, err := m.IssueVerificationCode(u, time.Now())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if code != "" {
			t.Errorf("expected empty code for verified account, got %q", code)
		}
		if u.HasVerifyOtp() {
			t.Error("no code should be stored for a verified account")
		}
	})

	t.Run("re-issue overwrites an outstanding code", func(t *testing.T) {
		m := NewOtpManager()
		u := &entity.User{Email: "test@example.com"}
		now := time.Now()

		first, err := m.IssueVerificationCode(u, now.Add(-time.Hour))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		second, err := m.IssueVerificationCode(u, now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if u.VerifyOtp != second {
			t.Errorf("expected latest code stored, got %q", u.VerifyOtp)
		}
		// 旧コードは上書きで無効になる
		if first != second {
			if err := m.ConsumeVerificationCode(u, first, now); !errors.Is(err, domain.ErrInvalidOtp) {
				t.Errorf("expected ErrInvalidOtp for overwritten code, got %v", err)
			}
		}
	})
}

func TestOtpManager_IssueResetCode(t *testing.T) {
	t.Parallel()

	m := NewOtpManager()
	u := &entity.User{Email: "test@example.com"}
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	code, err := m.IssueResetCode(u, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !otpPattern.MatchString(code) {
		t.Errorf("expected 6 digit code, got %q", code)
	}
	if u.ResetOtp != code {
		t.Errorf("expected code stored on record, got %q", u.ResetOtp)
	}
	if want := now.Add(15 * time.Minute); !u.ResetOtpExpiresAt.Equal(want) {
		t.Errorf("expected expiry %v, got %v", want, u.ResetOtpExpiresAt)
	}
}

func TestOtpManager_ConsumeVerificationCode(t *testing.T) {
	t.Parallel()

	issuedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	newUserWithCode := func(t *testing.T, m *OtpManager) (*entity.User, string) {
		t.Helper()
		u := &entity.User{Email: "test@example.com"}
		code, err := m.IssueVerificationCode(u, issuedAt)
		if err != nil {
			t.Fatalf("failed to issue code: %v", err)
		}
		return u, code
	}

	t.Run("success clears both fields", func(t *testing.T) {
		m := NewOtpManager()
		u, code := newUserWithCode(t, m)

		if err := m.ConsumeVerificationCode(u, code, issuedAt.Add(time.Minute)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if u.VerifyOtp != "" || !u.VerifyOtpExpiresAt.IsZero() {
			t.Error("expected verify slot cleared after successful consume")
		}
	})

	t.Run("single use: second consume is invalid", func(t *testing.T) {
		m := NewOtpManager()
		u, code := newUserWithCode(t, m)

		if err := m.ConsumeVerificationCode(u, code, issuedAt.Add(time.Minute)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := m.ConsumeVerificationCode(u, code, issuedAt.Add(2*time.Minute)); !errors.Is(err, domain.ErrInvalidOtp) {
			t.Errorf("expected ErrInvalidOtp on reuse, got %v", err)
		}
	})

	t.Run("mismatch leaves stored code intact", func(t *testing.T) {
		m := NewOtpManager()
		u, code := newUserWithCode(t, m)

		wrong := "000000"
		if wrong == code {
			wrong = "000001"
		}
		if err := m.ConsumeVerificationCode(u, wrong, issuedAt.Add(time.Minute)); !errors.Is(err, domain.ErrInvalidOtp) {
			t.Errorf("expected ErrInvalidOtp, got %v", err)
		}
		// タイプミスでコードが無効化されてはいけない
		if u.VerifyOtp != code {
			t.Error("stored code must survive a mismatched attempt")
		}
		if err := m.ConsumeVerificationCode(u, code, issuedAt.Add(2*time.Minute)); err != nil {
			t.Errorf("correct code should still be consumable: %v", err)
		}
	})

	t.Run("expiry boundary", func(t *testing.T) {
		m := NewOtpManager()

		u1, code1 := newUserWithCode(t, m)
		if err := m.ConsumeVerificationCode(u1, code1, issuedAt.Add(24*time.Hour-time.Second)); err != nil {
			t.Errorf("consume just before expiry should succeed: %v", err)
		}

		u2, code2 := newUserWithCode(t, m)
		if err := m.ConsumeVerificationCode(u2, code2, issuedAt.Add(24*time.Hour+time.Second)); !errors.Is(err, domain.ErrExpiredOtp) {
			t.Errorf("expected ErrExpiredOtp just after expiry, got %v", err)
		}
	})

	t.Run("expired code is not auto-cleared by a failed check", func(t *testing.T) {
		m := NewOtpManager()
		u, code := newUserWithCode(t, m)

		late := issuedAt.Add(25 * time.Hour)
		if err := m.ConsumeVerificationCode(u, code, late); !errors.Is(err, domain.ErrExpiredOtp) {
			t.Fatalf("expected ErrExpiredOtp, got %v", err)
		}
		// 期限切れコードは次の発行成功または消費成功でのみクリアされる
		if u.VerifyOtp != code {
			t.Error("expired code must remain until the next successful issue or consume")
		}

		fresh, err := m.IssueVerificationCode(u, late)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if u.VerifyOtp != fresh {
			t.Error("re-issue should overwrite the expired code")
		}
	})

	t.Run("no code outstanding is invalid", func(t *testing.T) {
		m := NewOtpManager()
		u := &entity.User{Email: "test@example.com"}

		if err := m.ConsumeVerificationCode(u, "123456", issuedAt); !errors.Is(err, domain.ErrInvalidOtp) {
			t.Errorf("expected ErrInvalidOtp, got %v", err)
		}
	})
}

func TestOtpManager_ConsumeResetCode(t *testing.T) {
	t.Parallel()

	issuedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("success clears the reset slot only", func(t *testing.T) {
		m := NewOtpManager()
		u := &entity.User{Email: "test@example.com"}

		verifyCode, err := m.IssueVerificationCode(u, issuedAt)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		resetCode, err := m.IssueResetCode(u, issuedAt)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if err := m.ConsumeResetCode(u, resetCode, issuedAt.Add(time.Minute)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if u.HasResetOtp() {
			t.Error("expected reset slot cleared")
		}
		// 確認スロットは独立している
		if u.VerifyOtp != verifyCode {
			t.Error("verify slot must not be touched by a reset consume")
		}
	})

	t.Run("expiry boundary at 15 minutes", func(t *testing.T) {
		m := NewOtpManager()

		u1 := &entity.User{Email: "a@example.com"}
		code1, _ := m.IssueResetCode(u1, issuedAt)
		if err := m.ConsumeResetCode(u1, code1, issuedAt.Add(15*time.Minute-time.Second)); err != nil {
			t.Errorf("consume just before expiry should succeed: %v", err)
		}

		u2 := &entity.User{Email: "b@example.com"}
		code2, _ := m.IssueResetCode(u2, issuedAt)
		if err := m.ConsumeResetCode(u2, code2, issuedAt.Add(15*time.Minute+time.Second)); !errors.Is(err, domain.ErrExpiredOtp) {
			t.Errorf("expected ErrExpiredOtp just after expiry, got %v", err)
		}
	})
}
