package httptransport

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"smail/backend/internal/middleware"
	"smail/backend/internal/monitoring"
	"smail/backend/internal/service"
	"smail/backend/internal/storage"
)

// MessageHandler 邮件读取处理器；所有接口都要求通过租约校验中间件，
// 地址从上下文取出，调用方只能读到自己租用地址的邮件。
type MessageHandler struct {
	messages *service.MessageService
	metrics  *monitoring.Metrics
	log      *zap.Logger
}

// NewMessageHandler 创建邮件读取处理器
func NewMessageHandler(messages *service.MessageService, metrics *monitoring.Metrics, log *zap.Logger) *MessageHandler {
	return &MessageHandler{
		messages: messages,
		metrics:  metrics,
		log:      log,
	}
}

// List 列出当前租用邮箱的邮件
// GET /v1/mailbox/messages
func (h *MessageHandler) List(c *gin.Context) {
	address := c.GetString(middleware.ContextMailboxKey)

	msgs, err := h.messages.List(c.Request.Context(), address)
	if err != nil {
		h.log.Error("list messages failed",
			zap.String("address", address),
			zap.Error(err),
		)
		InternalError(c, "服务器内部错误")
		return
	}

	if h.metrics != nil {
		h.metrics.MessagesListed.Inc()
	}
	Success(c, gin.H{
		"messages": msgs,
		"total":    len(msgs),
	})
}

// Get 读取单封邮件
// GET /v1/mailbox/messages/:id
func (h *MessageHandler) Get(c *gin.Context) {
	address := c.GetString(middleware.ContextMailboxKey)
	messageID := c.Param("id")

	msg, err := h.messages.Get(c.Request.Context(), address, messageID)
	if err != nil {
		if errors.Is(err, storage.ErrMessageNotFound) {
			NotFound(c, messageFor(err))
			return
		}
		h.log.Error("get message failed",
			zap.String("address", address),
			zap.String("message_id", messageID),
			zap.Error(err),
		)
		InternalError(c, "服务器内部错误")
		return
	}

	Success(c, msg)
}

// MarkRead 将邮件标记为已读
// POST /v1/mailbox/messages/:id/read
func (h *MessageHandler) MarkRead(c *gin.Context) {
	address := c.GetString(middleware.ContextMailboxKey)
	messageID := c.Param("id")

	if err := h.messages.MarkRead(c.Request.Context(), address, messageID); err != nil {
		if errors.Is(err, storage.ErrMessageNotFound) {
			NotFound(c, messageFor(err))
			return
		}
		h.log.Error("mark message read failed",
			zap.String("address", address),
			zap.String("message_id", messageID),
			zap.Error(err),
		)
		InternalError(c, "服务器内部错误")
		return
	}

	Success(c, nil)
}
