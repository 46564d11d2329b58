package lock

import (
	"context"
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

var releaseScript = redis.NewScript(`
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("del", KEYS[1])
	else
		return 0
	end
`)

var refreshScript = redis.NewScript(`
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("pexpire", KEYS[1], ARGV[2])
	else
		return 0
	end
`)

type RedisLock struct {
	client *redis.Client
	key    string
	value  string
	ttl    time.Duration
}

func NewRedisLock(client *redis.Client, key string, ttl time.Duration) *RedisLock {
	return &RedisLock{
		client: client,
		key:    fmt.Sprintf("lock:%s", key),
		ttl:    ttl,
	}
}

// Acquire grava a chave com SET NX. O valor identifica o dono para a liberação.
func (l *RedisLock) Acquire(ctx context.Context) (bool, error) {
	value, err := gonanoid.New()
	if err != nil {
		return false, errors.Wrap(err, "generate lock owner")
	}

	acquired, err := l.client.SetNX(ctx, l.key, value, l.ttl).Result()
	if err != nil {
		return false, errors.Wrapf(err, "acquire lock %s", l.key)
	}

	if acquired {
		l.value = value
	}

	return acquired, nil
}

// Refresh estende o TTL apenas se a chave ainda pertence a esta instância
func (l *RedisLock) Refresh(ctx context.Context) (bool, error) {
	if l.value == "" {
		return false, nil
	}

	extended, err := refreshScript.Run(ctx, l.client, []string{l.key}, l.value, l.ttl.Milliseconds()).Int()
	if err != nil {
		return false, errors.Wrapf(err, "refresh lock %s", l.key)
	}

	return extended == 1, nil
}

// Release remove a chave apenas se ela ainda pertence a esta instância
func (l *RedisLock) Release(ctx context.Context) error {
	if l.value == "" {
		return nil
	}

	if _, err := releaseScript.Run(ctx, l.client, []string{l.key}, l.value).Result(); err != nil {
		return errors.Wrapf(err, "release lock %s", l.key)
	}

	l.value = ""
	return nil
}

func (l *RedisLock) Key() string {
	return l.key
}
