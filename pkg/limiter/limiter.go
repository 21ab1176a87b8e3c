// Package limiter 提供了本地令牌桶与分布式滑动窗口两种限流器实现。
package limiter

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// Limiter 接口定义了限流器的通用行为。
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// LocalLimiter 是一个基于令牌桶算法的本地限流器。
// 适用于单个应用程序实例内的限流。
type LocalLimiter struct {
	limiter *rate.Limiter
}

// NewLocalLimiter 创建并返回一个新的 LocalLimiter 实例。
// r: 每秒生成的令牌数，代表允许的平均请求速率。
// b: 令牌桶的容量，代表允许的瞬时突发请求数。
func NewLocalLimiter(r rate.Limit, b int) *LocalLimiter {
	return &LocalLimiter{
		limiter: rate.NewLimiter(r, b),
	}
}

// Allow 检查一个请求是否被允许通过。
// 本地限流器是全局限流，key 参数未被使用。
func (l *LocalLimiter) Allow(ctx context.Context, key string) (bool, error) {
	return l.limiter.Allow(), nil
}

// RedisLimiter 是一个基于 Redis 实现的分布式限流器。
// 使用ZSet实现滑动窗口算法，支持在多个应用程序实例之间共享限流状态。
type RedisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

// NewRedisLimiter 创建并返回一个新的 RedisLimiter 实例。
func NewRedisLimiter(client *redis.Client, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		limit:  limit,
		window: window,
	}
}

// Allow 检查一个请求是否被允许通过。
// 滑动窗口步骤：移除窗口外的旧记录、统计窗口内请求数、记录当前请求。
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	now := time.Now().UnixNano()
	windowStart := now - l.window.Nanoseconds()

	// 使用Redis Pipeline批量执行命令，确保原子性。
	pipe := l.client.Pipeline()

	pipe.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%d", windowStart))
	pipe.ZCard(ctx, key)
	pipe.ZAdd(ctx, key, redis.Z{
		Score:  float64(now),
		Member: now,
	})
	// 设置过期时间，防止内存泄露。
	pipe.Expire(ctx, key, l.window)

	cmds, err := pipe.Exec(ctx)
	if err != nil {
		return false, err
	}

	// cmds[1] 是 ZCard 命令的结果。
	count := cmds[1].(*redis.IntCmd).Val()

	// count 不包含本次 ZAdd 之前的请求即为窗口内存量，小于上限则放行。
	return count < int64(l.limit), nil
}
