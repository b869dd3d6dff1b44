package main

import (
	"log"
	"os"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"authvault_backend/internal/app/di"
	"authvault_backend/internal/app/router"
	authhandler "authvault_backend/internal/feature/auth/transport/handler"
	authusecase "authvault_backend/internal/feature/auth/usecase"
	"authvault_backend/internal/platform/db"
	"authvault_backend/internal/platform/mail"
	"authvault_backend/internal/platform/oauth"
	infraredis "authvault_backend/internal/platform/redis"
	"authvault_backend/internal/platform/token"
)

// sessionTokenTTL はセッショントークンの有効期間です。
const sessionTokenTTL = 24 * time.Hour

func main() {
	// db
	gormDB := db.OpenDB()

	// Redis（任意。無ければキャッシュなしで動作する）
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(); err != nil {
		log.Println("[WARN] Redis unavailable. Running without cache.")
		rdb = nil
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Println("[ERROR] Failed to close Redis client:", err)
			}
		}()
	}

	// 署名シークレットは起動時に一度だけ読み、明示的に注入する
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Println("[WARN] JWT_SECRET is not set. Set a strong secret in production.")
	}
	issuer := token.NewIssuer(secret, sessionTokenTTL)

	// 通知シンク（SMTP未設定時はログ出力のみ）
	var mailer authusecase.Mailer
	mailCfg := mail.LoadConfig()
	if mailCfg.Host == "" {
		log.Println("[WARN] SMTP_HOST is not set. Emails will only be logged.")
		mailer = mail.NewLogMailer()
	} else {
		m, err := mail.NewSMTPMailer(mailCfg)
		if err != nil {
			log.Fatalf("failed to initialize mailer: %v", err)
		}
		mailer = m
	}

	// Repository（Redisがあればキャッシュデコレーターでラップ）
	userRepo := di.NewUserRepository(rdb, gormDB)

	// Usecase
	authUC := authusecase.NewAuthUsecase(userRepo, issuer, mailer)

	// Handler
	authH := authhandler.NewAuthHandler(authUC, issuer)

	// 連携ログイン（クライアント設定時のみ有効）
	var oauthH *authhandler.OAuthHandler
	oauthCfg := oauth.LoadConfig()
	if oauthCfg.Enabled() {
		frontendURL := os.Getenv("FRONTEND_URL")
		if frontendURL == "" {
			frontendURL = "http://localhost:3000"
		}
		oauthH = authhandler.NewOAuthHandler(authUC, oauth.NewGitHubProvider(oauthCfg), frontendURL)
	} else {
		log.Println("[WARN] GitHub OAuth client is not configured. Federated login disabled.")
	}

	// ルータ生成
	r := router.NewRouter(authH, oauthH, issuer)

	if err := r.Run(":8080"); err != nil {
		log.Fatal(err)
	}
}
