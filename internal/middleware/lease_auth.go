package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"smail/backend/internal/lease"
)

// 租约认证使用的请求头与上下文键
const (
	HeaderMailboxAddress = "X-Mailbox-Address"
	HeaderMailboxToken   = "X-Mailbox-Token"
	ContextMailboxKey    = "mailboxAddress"
)

// LeaseAuth 租约令牌认证中间件。
//
// 调用方在申领时获得 address+token 对，访问邮箱数据时通过请求头
// 回传；这里对照租约存储校验所有权，服务端不保存会话状态。
type LeaseAuth struct {
	manager *lease.Manager
	log     *zap.Logger
}

// NewLeaseAuth 创建租约认证中间件
func NewLeaseAuth(manager *lease.Manager, log *zap.Logger) *LeaseAuth {
	if log == nil {
		log = zap.NewNop()
	}
	return &LeaseAuth{manager: manager, log: log}
}

// RequireLeaseToken 要求请求携带有效的地址与租约令牌
func (la *LeaseAuth) RequireLeaseToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		address := strings.ToLower(strings.TrimSpace(c.GetHeader(HeaderMailboxAddress)))
		token := strings.TrimSpace(c.GetHeader(HeaderMailboxToken))
		if address == "" || token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "mailbox address and token required",
			})
			c.Abort()
			return
		}

		ok, err := la.manager.Verify(c.Request.Context(), address, token)
		if err != nil {
			la.log.Error("lease verification failed",
				zap.String("address", address),
				zap.Error(err),
			)
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error": "lease store unavailable",
			})
			c.Abort()
			return
		}
		if !ok {
			la.log.Warn("invalid lease token",
				zap.String("address", address),
				zap.String("ip", c.ClientIP()),
			)
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "invalid mailbox token",
			})
			c.Abort()
			return
		}

		c.Set(ContextMailboxKey, address)
		c.Next()
	}
}
