package dto

// LoginRes は/loginエンドポイントの成功レスポンスを表します。
// トークンはクッキーにも設定されますが、ヘッダー運用のクライアント向けに
// ボディでも返却します。
type LoginRes struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

// ProfileRes はプロフィール系エンドポイントのレスポンスを表します。
// パスワードハッシュやOTPの内部状態は決して含めません。
type ProfileRes struct {
	UserID     string `json:"userId"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	IsVerified bool   `json:"isAccountVerified"`
}

// MessageRes は汎用の成功レスポンスを表します。
type MessageRes struct {
	Message string `json:"message"`
}

// ErrorRes は汎用のエラーレスポンスを表します。
type ErrorRes struct {
	Error string `json:"error"`
}

// AuthenticatedRes は/is-authenticatedエンドポイントのレスポンスを表します。
type AuthenticatedRes struct {
	Authenticated bool `json:"authenticated"`
}
