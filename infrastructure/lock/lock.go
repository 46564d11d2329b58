package lock

import (
	"context"
	"database/sql"
	"time"

	"github.com/redis/go-redis/v9"
)

// Locker garante que apenas uma instância execute a mesma rotina ao mesmo tempo.
// Uma instância de Locker não deve ser compartilhada entre goroutines.
type Locker interface {
	Acquire(ctx context.Context) (bool, error)
	// Refresh renova o lock enquanto a rotina ainda executa. Retorna falso
	// quando o lock não pertence mais a esta instância.
	Refresh(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

// New usa Redis quando disponível e cai para advisory lock do Postgres
func New(redisClient *redis.Client, db *sql.DB, key string, ttl time.Duration) Locker {
	if redisClient != nil {
		return NewRedisLock(redisClient, key, ttl)
	}
	return NewPGAdvisoryLock(db, key)
}
