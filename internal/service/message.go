package service

import (
	"context"

	"smail/backend/internal/domain"
	"smail/backend/internal/storage"
)

// MessageService 封装邮件读取相关业务操作。
//
// 邮件由外部投递管道写入存储，这里只做面向持有租约会话的薄读取层。
type MessageService struct {
	repo storage.MessageRepository
}

// NewMessageService 创建邮件业务服务。
func NewMessageService(repo storage.MessageRepository) *MessageService {
	return &MessageService{repo: repo}
}

// List 返回某地址收到的全部邮件，按接收时间倒序。
func (s *MessageService) List(ctx context.Context, address string) ([]domain.Message, error) {
	return s.repo.ListMessages(ctx, address)
}

// Get 读取某地址下的单封邮件。
func (s *MessageService) Get(ctx context.Context, address, messageID string) (*domain.Message, error) {
	return s.repo.GetMessage(ctx, address, messageID)
}

// MarkRead 标记邮件为已读。
func (s *MessageService) MarkRead(ctx context.Context, address, messageID string) error {
	return s.repo.MarkMessageRead(ctx, address, messageID)
}
