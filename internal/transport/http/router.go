package httptransport

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"smail/backend/internal/config"
	"smail/backend/internal/health"
	"smail/backend/internal/lease"
	"smail/backend/internal/middleware"
	"smail/backend/internal/monitoring"
	"smail/backend/internal/service"
)

// 请求体大小上限；申领请求体只有一个可选字段
const maxRequestBodyBytes = 1 << 20

// RouterDependencies 路由依赖集合
type RouterDependencies struct {
	Config       *config.Config
	LeaseManager *lease.Manager
	Messages     *service.MessageService
	Metrics      *monitoring.Metrics // 可为 nil（测试环境）
	Health       *health.HealthChecker
	Logger       *zap.Logger
}

// NewRouter 创建并配置 Gin 路由
func NewRouter(deps RouterDependencies) *gin.Engine {
	router := gin.New()

	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	router.Use(middleware.RecoveryHandler(log, deps.Metrics))
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.BodySizeLimit(maxRequestBodyBytes))
	router.Use(middleware.CollectMetrics(deps.Metrics))
	router.Use(corsMiddleware(deps.Config))

	if deps.Health != nil {
		router.GET("/health/live", gin.WrapF(deps.Health.LiveEndpoint))
		router.GET("/health/ready", gin.WrapF(deps.Health.ReadyEndpoint))
	}
	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics.HTTPHandler()))
	}

	mailboxHandler := NewMailboxHandler(deps.LeaseManager, deps.Metrics, log)
	messageHandler := NewMessageHandler(deps.Messages, deps.Metrics, log)
	leaseAuth := middleware.NewLeaseAuth(deps.LeaseManager, log)

	v1 := router.Group("/v1")
	{
		v1.GET("/public/config", mailboxHandler.PublicConfig)

		mailbox := v1.Group("/mailbox")
		{
			mailbox.POST("",
				middleware.RateLimitByIP(deps.Config.RateLimit.ClaimsPerMinute, log),
				mailboxHandler.Claim,
			)
			mailbox.DELETE("", mailboxHandler.Release)

			messages := mailbox.Group("/messages", leaseAuth.RequireLeaseToken())
			{
				messages.GET("", messageHandler.List)
				messages.GET("/:id", messageHandler.Get)
				messages.POST("/:id/read", messageHandler.MarkRead)
			}
		}
	}

	return router
}

// corsMiddleware 根据配置构建 CORS 中间件
func corsMiddleware(cfg *config.Config) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Accept",
			middleware.HeaderMailboxAddress, middleware.HeaderMailboxToken,
		},
		ExposeHeaders: []string{"Retry-After"},
		MaxAge:        12 * time.Hour,
	}

	origins := cfg.CORS.AllowedOrigins
	if len(origins) == 1 && origins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = origins
	}

	return cors.New(corsConfig)
}
