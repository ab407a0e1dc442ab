package health

import (
	"context"
	"net/http"
	"time"

	"github.com/heptiolabs/healthcheck"
	"go.uber.org/zap"

	"smail/backend/internal/storage"
)

// HealthChecker 健康检查器
//
// 租约存储不可用时进程不可 ready：没有存储就无法提供任何申领与
// 释放语义。邮件库是可选依赖，缺失时跳过对应检查。
type HealthChecker struct {
	health healthcheck.Handler
	log    *zap.Logger
}

// NewHealthChecker 创建健康检查器
func NewHealthChecker(leaseStore storage.LeaseStore, messageRepo storage.MessageRepository, log *zap.Logger) *HealthChecker {
	if log == nil {
		log = zap.NewNop()
	}

	hc := &HealthChecker{
		health: healthcheck.NewHandler(),
		log:    log,
	}

	if pinger, ok := leaseStore.(storage.Pinger); ok {
		hc.health.AddReadinessCheck("lease-store", pingCheck(pinger))
	}
	if pinger, ok := messageRepo.(storage.Pinger); ok {
		hc.health.AddReadinessCheck("message-store", pingCheck(pinger))
	}

	// goroutine 数量异常增长通常意味着泄漏
	hc.health.AddLivenessCheck("goroutine-count", healthcheck.GoroutineCountCheck(500))

	return hc
}

// pingCheck 将存储的连通性探测包装为健康检查
func pingCheck(pinger storage.Pinger) healthcheck.Check {
	return func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return pinger.Ping(ctx)
	}
}

// LiveEndpoint 存活检查端点
func (hc *HealthChecker) LiveEndpoint(w http.ResponseWriter, r *http.Request) {
	hc.health.LiveEndpoint(w, r)
}

// ReadyEndpoint 就绪检查端点
func (hc *HealthChecker) ReadyEndpoint(w http.ResponseWriter, r *http.Request) {
	hc.health.ReadyEndpoint(w, r)
}
