package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"smail/backend/internal/domain"
	"smail/backend/internal/storage"
)

// Store 在内存中保存租约与邮件数据，主要用于开发验证与测试。
//
// 租约过期同样由"存储侧"负责：条目带有到期时间，访问时惰性清理，
// 与 Redis 的原生键过期语义保持一致。时间源可注入，便于测试模拟
// TTL 流逝。
type Store struct {
	mu       sync.RWMutex
	leases   map[string]*leaseEntry
	messages map[string]map[string]*domain.Message // address -> messageID -> message
	now      func() time.Time
}

// leaseEntry 租约条目
type leaseEntry struct {
	Value     string
	ExpiresAt time.Time
}

// NewStore 创建一个内存存储实例。
func NewStore() *Store {
	return NewStoreWithClock(time.Now)
}

// NewStoreWithClock 创建使用指定时间源的内存存储实例，供测试模拟过期。
func NewStoreWithClock(now func() time.Time) *Store {
	return &Store{
		leases:   make(map[string]*leaseEntry),
		messages: make(map[string]map[string]*domain.Message),
		now:      now,
	}
}

// Get 读取租约键，不存在或已过期时返回 storage.ErrLeaseNotFound。
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.leases[key]
	if !ok {
		return "", storage.ErrLeaseNotFound
	}
	if !s.now().Before(entry.ExpiresAt) {
		delete(s.leases, key)
		return "", storage.ErrLeaseNotFound
	}
	return entry.Value, nil
}

// SetWithTTL 写入租约键，覆盖任何已有值。
func (s *Store) SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.leases[key] = &leaseEntry{
		Value:     value,
		ExpiresAt: s.now().Add(ttl),
	}
	return nil
}

// Delete 删除租约键。
func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.leases, key)
	return nil
}

// Ping 内存存储始终可用。
func (s *Store) Ping(ctx context.Context) error {
	return nil
}

// SaveMessage 保存一封邮件，模拟外部投递管道的写入。
func (s *Store) SaveMessage(message *domain.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if message.ID == "" {
		message.ID = uuid.NewString()
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = s.now().UTC()
	}

	byID, ok := s.messages[message.Address]
	if !ok {
		byID = make(map[string]*domain.Message)
		s.messages[message.Address] = byID
	}
	byID[message.ID] = message
	return nil
}

// ListMessages 返回某地址收到的全部邮件，按接收时间倒序。
func (s *Store) ListMessages(ctx context.Context, address string) ([]domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byID := s.messages[address]
	result := make([]domain.Message, 0, len(byID))
	for _, msg := range byID {
		result = append(result, *msg)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// GetMessage 读取某地址下的单封邮件。
func (s *Store) GetMessage(ctx context.Context, address, messageID string) (*domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msg, ok := s.messages[address][messageID]
	if !ok {
		return nil, storage.ErrMessageNotFound
	}
	copied := *msg
	return &copied, nil
}

// MarkMessageRead 标记邮件为已读。
func (s *Store) MarkMessageRead(ctx context.Context, address, messageID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg, ok := s.messages[address][messageID]
	if !ok {
		return storage.ErrMessageNotFound
	}
	msg.Read = true
	return nil
}
