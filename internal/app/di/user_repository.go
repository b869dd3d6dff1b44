package di

import (
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"authvault_backend/internal/feature/auth/adapters"
	"authvault_backend/internal/feature/auth/usecase"
	"authvault_backend/internal/platform/cache"
)

// userCacheTTL はFindByEmailキャッシュの有効期間です。
// Saveで必ず無効化されるため、TTLは取りこぼしの保険に過ぎません。
const userCacheTTL = 5 * time.Minute

// NewUserRepository はUserRepositoryの実装を生成します。
// Redisが利用可能な場合はMySQLリポジトリをread-throughキャッシュでラップし、
// 利用不可の場合はMySQLリポジトリをそのまま返します。
func NewUserRepository(rdb *redis.Client, db *gorm.DB) usecase.UserRepository {
	repo := adapters.NewUserMySQL(db)
	if rdb != nil {
		return cache.NewCachingUserRepository(rdb, userCacheTTL, repo, "users")
	}
	return repo
}
