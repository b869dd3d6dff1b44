// Package dto はauthフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

// RegisterReq は/registerエンドポイントのリクエストボディを表します。
// 必須フィールドとメール形式・パスワード長のバリデーションを含みます。
type RegisterReq struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}
