// Package usecase はauthフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"authvault_backend/internal/feature/auth/domain"
	"authvault_backend/internal/feature/auth/domain/entity"
	"authvault_backend/internal/shared/keyedmutex"
)

const (
	// minPasswordLength はパスワードの最低文字数を定義します。
	minPasswordLength = 8

	// federatedDefaultName はプロバイダーが表示名を返さない場合の既定値です。
	federatedDefaultName = "GitHub User"
)

// UserRepository はユーザーレコードの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	// FindByEmail は指定されたメールアドレスに一致するユーザーを取得します。
	// ユーザーが存在しない場合、domain.ErrUserNotFoundを返します。
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// ExistsByEmail は指定されたメールアドレスのユーザーが存在するかを返します。
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Save はレコード全体をupsertします。初回挿入時にストレージIDを採番し、
	// 以降は全ての可変フィールドを上書きします。部分更新はありません。
	// メールアドレス重複時はdomain.ErrEmailAlreadyExistsを返します。
	Save(ctx context.Context, user *entity.User) error
}

// TokenIssuer は署名付きセッショントークンの発行を抽象化します。
type TokenIssuer interface {
	// Issue は指定されたメールアドレスをsubjectとする署名済みトークンを生成します。
	Issue(email string) (string, error)
}

// Mailer は通知シンクを抽象化します。全メソッドはfire-and-forgetであり、
// 失敗しても呼び出し元の状態変更をロールバックしてはいけません。
type Mailer interface {
	// SendWelcome は登録完了メールを送信します。
	SendWelcome(ctx context.Context, email, name string) error
	// SendVerificationCode はメール確認コードを送信します。
	SendVerificationCode(ctx context.Context, email, code string) error
	// SendResetCode はパスワードリセットコードを送信します。
	SendResetCode(ctx context.Context, email, code string) error
}

// authUsecase は認証・OTPライフサイクルのコーディネーターです。
// ユーザー状態はレコードから毎回再構築されるため、呼び出し間で保持する
// インメモリ状態はメール単位のロックのみです。
type authUsecase struct {
	users  UserRepository
	tokens TokenIssuer
	mailer Mailer
	otp    *OtpManager

	// locks はメール単位のread-modify-writeを直列化します。
	// ストアはlast-writer-winsのため、同一コードの二重消費をここで防ぎます。
	locks *keyedmutex.KeyedMutex
}

// NewAuthUsecase はauthUsecaseの新しいインスタンスを生成します。
func NewAuthUsecase(users UserRepository, tokens TokenIssuer, mailer Mailer) *authUsecase {
	return &authUsecase{
		users:  users,
		tokens: tokens,
		mailer: mailer,
		otp:    NewOtpManager(),
		locks:  keyedmutex.New(),
	}
}

// validatePassword はパスワードがセキュリティ要件を満たしているかチェックします。
func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters long", minPasswordLength)
	}
	return nil
}

// Register はハッシュ化されたパスワードで新規ユーザーを登録します。
// メールアドレス重複時はdomain.ErrEmailAlreadyExistsを返します。
// ウェルカムメールの送信失敗は警告ログのみで、登録は取り消しません。
func (u *authUsecase) Register(ctx context.Context, email, name, password string) (*entity.User, error) {
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	unlock := u.locks.Lock(email)
	defer unlock()

	exists, err := u.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrEmailAlreadyExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entity.User{
		UserID:   uuid.NewString(),
		Email:    email,
		Name:     name,
		Password: string(hashed),
	}
	// Saveはユニーク制約でも重複を検知するため、ExistsByEmailとの間の
	// レースはdomain.ErrEmailAlreadyExistsに収束する
	if err := u.users.Save(ctx, user); err != nil {
		return nil, err
	}

	if err := u.mailer.SendWelcome(ctx, user.Email, user.Name); err != nil {
		slog.Warn("failed to send welcome email", "email", user.Email, "error", err)
	}

	return user, nil
}

// Login はユーザーを認証し、成功時に署名済みセッショントークンを返します。
// タイミング攻撃を防止するため、ユーザーが存在しない場合でもbcrypt比較を実行します。
func (u *authUsecase) Login(ctx context.Context, email, password string) (string, error) {
	user, err := u.users.FindByEmail(ctx, email)

	// ユーザーが存在しない場合のタイミング攻撃緩和用ダミーハッシュ
	// bcrypt.CompareHashAndPasswordが常に呼ばれることを保証する
	passwordHash := "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy" // ダミーハッシュ
	if err == nil {
		passwordHash = user.Password
	}

	compareErr := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password))

	// ユーザー未検出・パスワード不一致・連携アカウント（空ハッシュ）は
	// メールアドレスの存在を漏らさないよう同一のエラーに集約する
	if err != nil || compareErr != nil {
		return "", domain.ErrInvalidCredentials
	}

	if user.Disabled {
		return "", domain.ErrAccountDisabled
	}

	token, err := u.tokens.Issue(user.Email)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return token, nil
}

// FederatedLogin は外部IDプロバイダーのプロフィールからユーザーを取得または
// 作成し、セッショントークンを発行します。新規作成されるレコードは確認済み・
// パスワードハッシュ空で作成されます。
func (u *authUsecase) FederatedLogin(ctx context.Context, profile entity.ExternalProfile) (string, error) {
	email := profile.FallbackEmail()

	unlock := u.locks.Lock(email)
	defer unlock()

	user, err := u.users.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		name := profile.Name
		if name == "" {
			name = federatedDefaultName
		}
		user = &entity.User{
			UserID: uuid.NewString(),
			Email:  email,
			Name:   name,
			// 連携ユーザーはパスワードログインしない
			Password:   "",
			IsVerified: true,
		}
		if err := u.users.Save(ctx, user); err != nil {
			return "", err
		}
	case err != nil:
		return "", err
	}

	token, err := u.tokens.Issue(user.Email)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return token, nil
}

// RequestVerificationOtp はメール確認コードを発行・保存し、メールで送信します。
// 既に確認済みのアカウントにはサイレントにノーオップします（コード保存も
// メール送信も行わない）。
func (u *authUsecase) RequestVerificationOtp(ctx context.Context, email string) error {
	unlock := u.locks.Lock(email)
	defer unlock()

	user, err := u.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	code, err := u.otp.IssueVerificationCode(user, time.Now())
	if err != nil {
		return err
	}
	if code == "" {
		// 確認済みアカウント
		return nil
	}

	if err := u.users.Save(ctx, user); err != nil {
		return err
	}

	// 保存が確定した後に送信する。送信失敗は確定済みの状態変更を取り消さない
	if err := u.mailer.SendVerificationCode(ctx, user.Email, code); err != nil {
		slog.Warn("failed to send verification otp email", "email", user.Email, "error", err)
	}
	return nil
}

// ConfirmVerificationOtp は確認コードを消費し、成功時にIsVerifiedをtrueに
// 遷移させて保存します。この遷移は高々一度しか起こりません。
func (u *authUsecase) ConfirmVerificationOtp(ctx context.Context, email, code string) error {
	unlock := u.locks.Lock(email)
	defer unlock()

	user, err := u.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	if err := u.otp.ConsumeVerificationCode(user, code, time.Now()); err != nil {
		return err
	}

	user.IsVerified = true
	return u.users.Save(ctx, user)
}

// RequestPasswordReset はパスワードリセットコードを発行・保存し、メールで
// 送信します。未知のメールアドレスにはdomain.ErrUserNotFoundを返します。
func (u *authUsecase) RequestPasswordReset(ctx context.Context, email string) error {
	unlock := u.locks.Lock(email)
	defer unlock()

	user, err := u.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	code, err := u.otp.IssueResetCode(user, time.Now())
	if err != nil {
		return err
	}

	if err := u.users.Save(ctx, user); err != nil {
		return err
	}

	if err := u.mailer.SendResetCode(ctx, user.Email, code); err != nil {
		slog.Warn("failed to send reset otp email", "email", user.Email, "error", err)
	}
	return nil
}

// ConfirmPasswordReset はリセットコードを消費し、成功時に新しいパスワードを
// ハッシュ化して保存します。
func (u *authUsecase) ConfirmPasswordReset(ctx context.Context, email, code, newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	unlock := u.locks.Lock(email)
	defer unlock()

	user, err := u.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	if err := u.otp.ConsumeResetCode(user, code, time.Now()); err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashed)

	return u.users.Save(ctx, user)
}

// Profile は指定されたメールアドレスのユーザーレコードを返します。
func (u *authUsecase) Profile(ctx context.Context, email string) (*entity.User, error) {
	return u.users.FindByEmail(ctx, email)
}
