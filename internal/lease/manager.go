// Package lease 实现邮箱地址的租约分配协议。
//
// 一个地址同一时刻至多被一个会话持有；互斥完全由共享键值后端承载，
// 管理器自身无状态，可作为多个互不通信的副本并发运行。后端不提供
// 事务与条件写入，申领是先查后写（check-then-act）协议，对自定义
// 地址存在一个有记载的竞争窗口，见 Claim 的说明。
package lease

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"smail/backend/internal/domain"
	"smail/backend/internal/storage"
)

var (
	// ErrAddressTaken 自定义地址已被其他会话租用
	ErrAddressTaken = errors.New("address already leased")
	// ErrRetryExhausted 随机候选重试预算耗尽，可稍后重试整个操作
	ErrRetryExhausted = errors.New("candidate generation retries exhausted")
)

// 默认配置
const (
	DefaultTTL         = 24 * time.Hour // 租约默认生存时间
	DefaultRetryBudget = 5              // 随机候选的最大尝试次数
)

// NameGenerator 提供随机候选前缀。
type NameGenerator interface {
	Generate() string
}

// Options 租约管理器的不可变配置，构造时传入。
type Options struct {
	Domain           string        // 进程级邮箱域名
	TTL              time.Duration // 租约生存时间，零值取 DefaultTTL
	RetryBudget      int           // 随机候选尝试上限，零值取 DefaultRetryBudget
	ConflictFallback bool          // 自定义地址冲突时是否回退到随机生成
}

// ReleaseOutcome 释放操作的结果；NotOwner 与 NoLease 是信息性结果
// 而非错误。
type ReleaseOutcome string

const (
	ReleaseReleased ReleaseOutcome = "released"  // 租约已释放
	ReleaseNotOwner ReleaseOutcome = "not_owner" // 令牌不匹配，租约保持不动
	ReleaseNoLease  ReleaseOutcome = "no_lease"  // 地址上没有租约（重复释放或已过期）
)

// Claimed 申领成功的结果；Token 是授权释放的唯一凭证，服务端不再
// 保存会话与租约的对应关系。
type Claimed struct {
	Address   string    `json:"address"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Manager 编排验证、生成与存储，实现申领/释放协议。
//
// 调用之间不保留任何状态，所有共享可变状态都在 LeaseStore 中，
// 可被任意多个请求并发调用。
type Manager struct {
	store  storage.LeaseStore
	names  NameGenerator
	tokens TokenSource
	opts   Options
	log    *zap.Logger
}

// NewManager 创建租约管理器。
func NewManager(store storage.LeaseStore, names NameGenerator, opts Options, log *zap.Logger) *Manager {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.RetryBudget <= 0 {
		opts.RetryBudget = DefaultRetryBudget
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Manager{
		store:  store,
		names:  names,
		tokens: cryptoTokenSource{},
		opts:   opts,
		log:    log,
	}
}

// SetTokenSource 替换令牌来源，供测试注入确定性实现。
func (m *Manager) SetTokenSource(tokens TokenSource) {
	m.tokens = tokens
}

// Claim 申领一个邮箱地址。
//
// requested 非空时经 domain.NormalizeLocalPart 验证，不合法立即返回
// 验证错误，不访问存储也不回退生成；为空（或规范化为"无偏好"）时
// 使用随机生成的候选，冲突则换新候选重试，次数由 RetryBudget 限定，
// 耗尽返回 ErrRetryExhausted。
//
// 占用检查与写入之间不是原子操作：两个并发的同名自定义申领可能都
// 通过检查并先后写入，后写覆盖前写的令牌。后端没有条件写入原语，
// 这里不引入进程内锁来掩盖（管理器以多副本运行，进程内锁不解决
// 问题）；随机候选路径上冲突重试会换全新候选，窗口实际无害。
func (m *Manager) Claim(ctx context.Context, requested string) (*Claimed, error) {
	localPart, err := domain.NormalizeLocalPart(requested)
	if err != nil {
		return nil, err
	}

	if localPart != "" {
		claimed, err := m.tryClaim(ctx, localPart)
		if err == nil {
			return claimed, nil
		}
		if !errors.Is(err, ErrAddressTaken) {
			return nil, err
		}
		if !m.opts.ConflictFallback {
			m.log.Debug("custom address taken",
				zap.String("local_part", localPart),
			)
			return nil, ErrAddressTaken
		}
		// 冲突回退已启用：改用随机候选继续
	}

	for attempt := 0; attempt < m.opts.RetryBudget; attempt++ {
		claimed, err := m.tryClaim(ctx, m.names.Generate())
		if err == nil {
			if attempt > 0 {
				m.log.Info("claimed after candidate retries",
					zap.String("address", claimed.Address),
					zap.Int("attempts", attempt+1),
				)
			}
			return claimed, nil
		}
		if errors.Is(err, ErrAddressTaken) {
			continue
		}
		return nil, err
	}

	m.log.Warn("candidate retry budget exhausted",
		zap.Int("budget", m.opts.RetryBudget),
	)
	return nil, ErrRetryExhausted
}

// tryClaim 对单个候选执行一次先查后写的申领。
func (m *Manager) tryClaim(ctx context.Context, localPart string) (*Claimed, error) {
	address := localPart + "@" + m.opts.Domain
	key := domain.MailboxKey(address)

	_, err := m.store.Get(ctx, key)
	if err == nil {
		return nil, ErrAddressTaken
	}
	if !errors.Is(err, storage.ErrLeaseNotFound) {
		return nil, err
	}

	token, err := m.tokens.Token()
	if err != nil {
		return nil, err
	}

	if err := m.store.SetWithTTL(ctx, key, token, m.opts.TTL); err != nil {
		return nil, err
	}

	return &Claimed{
		Address:   address,
		Token:     token,
		ExpiresAt: time.Now().UTC().Add(m.opts.TTL),
	}, nil
}

// Release 释放一个邮箱地址上的租约。
//
// 地址上没有租约返回 ReleaseNoLease（重复释放是幂等的信息性结果）；
// 存储中的令牌与传入不符返回 ReleaseNotOwner 且不删除——原租约可能
// 已过期并被其他会话重新申领。只有令牌匹配才删除键。存储故障通过
// error 返回，绝不折叠成任何一种结果。
func (m *Manager) Release(ctx context.Context, address, token string) (ReleaseOutcome, error) {
	key := domain.MailboxKey(address)

	stored, err := m.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrLeaseNotFound) {
			return ReleaseNoLease, nil
		}
		return "", err
	}

	if stored != token {
		m.log.Warn("release with mismatched token",
			zap.String("address", address),
		)
		return ReleaseNotOwner, nil
	}

	if err := m.store.Delete(ctx, key); err != nil {
		return "", err
	}
	return ReleaseReleased, nil
}

// Verify 校验地址上的租约是否由持有该令牌的会话拥有。
// 返回 false 表示没有租约或令牌不匹配；存储故障通过 error 返回。
func (m *Manager) Verify(ctx context.Context, address, token string) (bool, error) {
	stored, err := m.store.Get(ctx, domain.MailboxKey(address))
	if err != nil {
		if errors.Is(err, storage.ErrLeaseNotFound) {
			return false, nil
		}
		return false, err
	}
	return stored == token, nil
}

// Domain 返回进程级邮箱域名。
func (m *Manager) Domain() string {
	return m.opts.Domain
}

// TTL 返回租约生存时间。
func (m *Manager) TTL() time.Duration {
	return m.opts.TTL
}
