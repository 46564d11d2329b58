package lock

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})

	return mr, client
}

func TestRedisLock_SingleOwner(t *testing.T) {
	mr, client := setupTestRedis(t)
	ctx := context.Background()

	first := NewRedisLock(client, "ad-monitor:tick", time.Minute)
	second := NewRedisLock(client, "ad-monitor:tick", time.Minute)

	ok, err := first.Acquire(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, mr.Exists("lock:ad-monitor:tick"))

	ok, err = second.Acquire(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	// Quem não é dono não remove a chave
	require.NoError(t, second.Release(ctx))
	assert.True(t, mr.Exists("lock:ad-monitor:tick"))

	require.NoError(t, first.Release(ctx))
	assert.False(t, mr.Exists("lock:ad-monitor:tick"))

	ok, err = second.Acquire(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisLock_ExpiresAfterTTL(t *testing.T) {
	mr, client := setupTestRedis(t)
	ctx := context.Background()

	first := NewRedisLock(client, "job", 10*time.Second)
	ok, err := first.Acquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(11 * time.Second)

	second := NewRedisLock(client, "job", 10*time.Second)
	ok, err = second.Acquire(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	// O dono antigo perdeu a chave e não pode liberar a do novo dono
	require.NoError(t, first.Release(ctx))
	assert.True(t, mr.Exists("lock:job"))
}

func TestRedisLock_AcquireError(t *testing.T) {
	mr, client := setupTestRedis(t)
	mr.Close()

	ok, err := NewRedisLock(client, "job", time.Second).Acquire(context.Background())
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestPGAdvisoryLock(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT pg_try_advisory_lock").
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"pg_try_advisory_lock"}).AddRow(true))
	mock.ExpectExec("SELECT pg_advisory_unlock").
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	l := NewPGAdvisoryLock(db, "ad-monitor:tick")

	ok, err := l.Acquire(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, l.Release(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPGAdvisoryLock_NotAcquired(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT pg_try_advisory_lock").
		WillReturnRows(sqlmock.NewRows([]string{"pg_try_advisory_lock"}).AddRow(false))

	l := NewPGAdvisoryLock(db, "ad-monitor:tick")

	ok, err := l.Acquire(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)

	// Sem lock adquirido, Release não executa nada
	require.NoError(t, l.Release(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNew_PrefersRedis(t *testing.T) {
	_, client := setupTestRedis(t)

	assert.IsType(t, &RedisLock{}, New(client, nil, "job", time.Second))
	assert.IsType(t, &PGAdvisoryLock{}, New(nil, nil, "job", time.Second))
}

func TestRedisLock_RefreshExtendsTTL(t *testing.T) {
	mr, client := setupTestRedis(t)
	ctx := context.Background()

	l := NewRedisLock(client, "job", 10*time.Second)
	ok, err := l.Acquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(8 * time.Second)

	ok, err = l.Refresh(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	// Sem a renovação a chave já teria expirado aos 10s
	mr.FastForward(8 * time.Second)
	assert.True(t, mr.Exists("lock:job"))

	other := NewRedisLock(client, "job", 10*time.Second)
	ok, err = other.Acquire(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisLock_RefreshLostOwnership(t *testing.T) {
	mr, client := setupTestRedis(t)
	ctx := context.Background()

	first := NewRedisLock(client, "job", 10*time.Second)
	ok, err := first.Acquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(11 * time.Second)

	second := NewRedisLock(client, "job", 10*time.Second)
	ok, err = second.Acquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	// O dono antigo não estende a chave do novo dono
	ok, err = first.Refresh(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	ttl := mr.TTL("lock:job")
	assert.LessOrEqual(t, ttl, 10*time.Second)
}

func TestRedisLock_RefreshWithoutAcquire(t *testing.T) {
	_, client := setupTestRedis(t)

	ok, err := NewRedisLock(client, "job", time.Second).Refresh(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPGAdvisoryLock_Refresh(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT pg_try_advisory_lock").
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"pg_try_advisory_lock"}).AddRow(true))
	mock.ExpectExec("SELECT pg_advisory_unlock").
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	l := NewPGAdvisoryLock(db, "ad-monitor:tick")

	ok, err := l.Refresh(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = l.Acquire(context.Background())
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = l.Refresh(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, l.Release(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
