package storage

import (
	"context"
	"errors"
	"time"

	"smail/backend/internal/domain"
)

var (
	// ErrLeaseNotFound 键值后端中不存在该租约键
	ErrLeaseNotFound = errors.New("lease not found")
	// ErrStoreUnavailable 键值后端不可用（网络或后端故障、超时）
	ErrStoreUnavailable = errors.New("lease store unavailable")
	// ErrMessageNotFound 邮件未找到错误
	ErrMessageNotFound = errors.New("message not found")
)

// LeaseStore 是共享键值后端上的最小能力面，按字符串键寻址。
//
// SetWithTTL 是无条件覆盖写：后端不提供原子的"不存在才写入"原语，
// 调用方只能先 Get 确认缺失再写入，中间的竞争窗口由上层协议承担。
// 未来支持条件写入的后端可以实现本接口替换进来，不必改动上层逻辑。
//
// 任何调用都可能因基础设施故障返回包装了 ErrStoreUnavailable 的错误；
// 调用方必须中止当前操作，绝不可当作成功处理。
type LeaseStore interface {
	// Get 读取键值，键不存在时返回 ErrLeaseNotFound。
	Get(ctx context.Context, key string) (string, error)
	// SetWithTTL 写入键值并设置后端原生的过期时间，覆盖任何已有值。
	SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error
	// Delete 删除键，键不存在时不报错。
	Delete(ctx context.Context, key string) error
}

// MessageRepository 定义邮件读取操作。
//
// 邮件由外部投递管道写入，本服务侧只做列表、读取与已读标记。
type MessageRepository interface {
	ListMessages(ctx context.Context, address string) ([]domain.Message, error)
	GetMessage(ctx context.Context, address, messageID string) (*domain.Message, error)
	MarkMessageRead(ctx context.Context, address, messageID string) error
}

// Pinger 由支持连通性探测的存储实现，用于健康检查。
type Pinger interface {
	Ping(ctx context.Context) error
}
