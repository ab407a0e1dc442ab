package httptransport

import (
	"errors"
	"io"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"smail/backend/internal/domain"
	"smail/backend/internal/lease"
	"smail/backend/internal/middleware"
	"smail/backend/internal/monitoring"
	"smail/backend/internal/storage"
)

// MailboxHandler 邮箱租约处理器
type MailboxHandler struct {
	leases  *lease.Manager
	metrics *monitoring.Metrics
	log     *zap.Logger
}

// NewMailboxHandler 创建邮箱租约处理器
func NewMailboxHandler(leases *lease.Manager, metrics *monitoring.Metrics, log *zap.Logger) *MailboxHandler {
	return &MailboxHandler{
		leases:  leases,
		metrics: metrics,
		log:     log,
	}
}

// claimRequest 申领请求体；localPart 为空表示无偏好，由服务端随机生成
type claimRequest struct {
	LocalPart string `json:"localPart"`
}

// Claim 申领邮箱地址
// POST /v1/mailbox
func (h *MailboxHandler) Claim(c *gin.Context) {
	var req claimRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		BadRequest(c, "请求格式错误")
		return
	}

	claimed, err := h.leases.Claim(c.Request.Context(), req.LocalPart)
	if err != nil {
		h.claimError(c, req.LocalPart, err)
		return
	}

	h.countClaim(monitoring.OutcomeClaimed)
	h.log.Info("mailbox claimed",
		zap.String("address", claimed.Address),
		zap.Time("expires_at", claimed.ExpiresAt),
	)
	Created(c, claimed)
}

// claimError 将申领错误翻译为 HTTP 响应并记录指标
func (h *MailboxHandler) claimError(c *gin.Context, requested string, err error) {
	switch {
	case errors.Is(err, domain.ErrLocalPartLength),
		errors.Is(err, domain.ErrLocalPartCharset),
		errors.Is(err, domain.ErrLocalPartEdgePunct):
		h.countClaim(monitoring.OutcomeRejected)
		UnprocessableEntity(c, messageFor(err))

	case errors.Is(err, lease.ErrAddressTaken):
		h.countClaim(monitoring.OutcomeConflict)
		Conflict(c, messageFor(err))

	case errors.Is(err, lease.ErrRetryExhausted):
		h.countClaim(monitoring.OutcomeTransient)
		ServiceUnavailable(c, messageFor(err))

	case errors.Is(err, storage.ErrStoreUnavailable):
		h.countClaim(monitoring.OutcomeError)
		h.countStoreError()
		h.log.Error("claim failed on lease store",
			zap.String("requested", requested),
			zap.Error(err),
		)
		ServiceUnavailable(c, messageFor(err))

	default:
		h.countClaim(monitoring.OutcomeError)
		h.log.Error("claim failed", zap.Error(err))
		InternalError(c, "服务器内部错误")
	}
}

// releaseResponse 释放结果；三种结果都是 200，由 outcome 字段区分
type releaseResponse struct {
	Outcome lease.ReleaseOutcome `json:"outcome"`
}

// Release 释放邮箱地址上的租约
// DELETE /v1/mailbox
//
// 地址和令牌通过请求头传递，与读邮件接口一致；释放不走租约校验
// 中间件，因为 no_lease 与 not_owner 要作为幂等结果返回而不是 401。
func (h *MailboxHandler) Release(c *gin.Context) {
	// 与租约校验中间件保持一致的请求头规范化
	address := strings.ToLower(strings.TrimSpace(c.GetHeader(middleware.HeaderMailboxAddress)))
	token := strings.TrimSpace(c.GetHeader(middleware.HeaderMailboxToken))
	if address == "" || token == "" {
		BadRequest(c, "缺少邮箱地址或租约令牌请求头")
		return
	}

	outcome, err := h.leases.Release(c.Request.Context(), address, token)
	if err != nil {
		h.countRelease(monitoring.OutcomeError)
		h.countStoreError()
		h.log.Error("release failed on lease store",
			zap.String("address", address),
			zap.Error(err),
		)
		ServiceUnavailable(c, messageFor(err))
		return
	}

	h.countRelease(string(outcome))
	if outcome == lease.ReleaseReleased {
		h.log.Info("mailbox released", zap.String("address", address))
	}
	Success(c, releaseResponse{Outcome: outcome})
}

func (h *MailboxHandler) countClaim(outcome string) {
	if h.metrics != nil {
		h.metrics.ClaimsTotal.WithLabelValues(outcome).Inc()
	}
}

func (h *MailboxHandler) countRelease(outcome string) {
	if h.metrics != nil {
		h.metrics.ReleasesTotal.WithLabelValues(outcome).Inc()
	}
}

func (h *MailboxHandler) countStoreError() {
	if h.metrics != nil {
		h.metrics.StoreErrors.Inc()
	}
}

// publicConfig 前端初始化所需的公开配置
type publicConfig struct {
	Domain             string `json:"domain"`
	LeaseTTLSeconds    int64  `json:"leaseTtlSeconds"`
	MinLocalPartLength int    `json:"minLocalPartLength"`
	MaxLocalPartLength int    `json:"maxLocalPartLength"`
}

// PublicConfig 返回公开配置
// GET /v1/public/config
func (h *MailboxHandler) PublicConfig(c *gin.Context) {
	Success(c, publicConfig{
		Domain:             h.leases.Domain(),
		LeaseTTLSeconds:    int64(h.leases.TTL() / time.Second),
		MinLocalPartLength: domain.MinLocalPartLength,
		MaxLocalPartLength: domain.MaxLocalPartLength,
	})
}
