package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"coord-api/internal/logger"
	"coord-api/internal/metrics"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// 文档注释：入口限流中间件
// 背景：单实例用令牌桶（每秒 qps，突发 qps）；配置了 Redis 时按秒窗口计数，多实例共享同一配额。
// 约束：不排队，超限直接返回 429；Redis 异常时回退到进程内令牌桶，不阻断请求。
type RateLimiter struct {
	local *rate.Limiter
	rc    *redis.Client
	qps   int
	now   func() time.Time
}

func NewRateLimiter(qps int, rc *redis.Client) *RateLimiter {
	if qps <= 0 {
		qps = 200
	}
	return &RateLimiter{
		local: rate.NewLimiter(rate.Limit(qps), qps),
		rc:    rc,
		qps:   qps,
		now:   time.Now,
	}
}

// Allow 判定当前请求是否放行
func (l *RateLimiter) Allow(ctx context.Context) bool {
	if l.rc != nil {
		ok, err := l.allowRedis(ctx)
		if err == nil {
			if !ok {
				metrics.RateLimitedTotal.WithLabelValues("redis").Inc()
			}
			return ok
		}
		logger.L().Debug("ratelimit_redis_error", "err", err)
	}
	if !l.local.Allow() {
		metrics.RateLimitedTotal.WithLabelValues("local").Inc()
		return false
	}
	return true
}

func (l *RateLimiter) allowRedis(ctx context.Context) (bool, error) {
	key := "coordapi:rl:" + strconv.FormatInt(l.now().Unix(), 10)
	pipe := l.rc.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, 2*time.Second)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	return incr.Val() <= int64(l.qps), nil
}

// Wrap 包装处理器
func (l *RateLimiter) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow(r.Context()) {
			w.Header().Set("retry-after", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
