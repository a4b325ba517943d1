package cache

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// 仅持有者可释放
var releaseLockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker 基于 SET NX 的短期互斥锁
// Redis 未启用时总是获取成功
type RedisLocker struct{}

// NewRedisLocker 创建锁
func NewRedisLocker() *RedisLocker {
	return &RedisLocker{}
}

// Acquire 获取锁，返回释放函数；ok=false 表示已被占用
func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), bool, error) {
	if !Enabled() {
		return func() {}, true, nil
	}
	if ttl <= 0 {
		ttl = 15 * time.Second
	}
	token := uuid.NewString()
	fullKey := buildKey("lock:" + key)
	ok, err := redisClient.SetNX(ctx, fullKey, token, ttl).Result()
	if err != nil {
		return func() {}, false, err
	}
	if !ok {
		return func() {}, false, nil
	}
	release := func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_, _ = releaseLockScript.Run(releaseCtx, redisClient, []string{fullKey}, token).Result()
	}
	return release, true, nil
}
