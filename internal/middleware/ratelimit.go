package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ipLimiter 单个 IP 的限流器及其最近活跃时间
type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// 不活跃 IP 条目的保留时间
const limiterIdleTimeout = 10 * time.Minute

// RateLimitByIP 基于令牌桶的单 IP 限流中间件。
//
// perMinute 为每分钟允许的请求数，突发上限与其相同，小于 1 时按 1
// 处理。限流状态保存在进程内，多副本部署时限制按副本各自生效。
func RateLimitByIP(perMinute int, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	if perMinute < 1 {
		perMinute = 1
	}

	var (
		mu        sync.Mutex
		limiters  = make(map[string]*ipLimiter)
		lastSweep = time.Now()
	)

	limit := rate.Every(time.Minute / time.Duration(perMinute))

	return func(c *gin.Context) {
		ip := c.ClientIP()

		mu.Lock()
		// 顺带清理长时间不活跃的 IP，避免映射无限增长；放在请求
		// 路径上而不用后台 goroutine，中间件本身无需停止逻辑
		if time.Since(lastSweep) > limiterIdleTimeout {
			for addr, entry := range limiters {
				if time.Since(entry.lastSeen) > limiterIdleTimeout {
					delete(limiters, addr)
				}
			}
			lastSweep = time.Now()
		}

		entry, ok := limiters[ip]
		if !ok {
			entry = &ipLimiter{limiter: rate.NewLimiter(limit, perMinute)}
			limiters[ip] = entry
		}
		entry.lastSeen = time.Now()
		mu.Unlock()

		if !entry.limiter.Allow() {
			log.Warn("rate limit exceeded", zap.String("ip", ip))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "too many requests",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
