package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"smail/backend/internal/config"
	"smail/backend/internal/storage"
)

// 单次存储调用的超时上限；超时按后端不可用处理，绝不猜测结果。
const opTimeout = 3 * time.Second

// Store 基于 Redis 的租约存储实现。
//
// Redis 的原生键过期充当租约的 TTL；本实现只做键值读写，不包含
// 任何业务逻辑。
type Store struct {
	rdb *goredis.Client
	log *zap.Logger
}

// New 创建 Redis 租约存储并验证连通性。
func New(cfg *config.RedisConfig, log *zap.Logger) (*Store, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	if log == nil {
		log = zap.NewNop()
	}
	log.Info("connected to Redis",
		zap.String("address", cfg.Address),
		zap.Int("db", cfg.DB),
	)

	return &Store{rdb: rdb, log: log}, nil
}

// Get 读取键值，键不存在时返回 storage.ErrLeaseNotFound。
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	value, err := s.rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", storage.ErrLeaseNotFound
		}
		return "", unavailable("get", key, err)
	}
	return value, nil
}

// SetWithTTL 写入键值并设置 Redis 原生过期时间，覆盖任何已有值。
func (s *Store) SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := s.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		return unavailable("set", key, err)
	}
	return nil
}

// Delete 删除键。
func (s *Store) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		return unavailable("del", key, err)
	}
	return nil
}

// Ping 测试 Redis 连接，用于健康检查。
func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// Close 关闭 Redis 连接。
func (s *Store) Close() error {
	if err := s.rdb.Close(); err != nil {
		s.log.Error("failed to close Redis connection", zap.Error(err))
		return err
	}
	s.log.Info("Redis connection closed")
	return nil
}

// unavailable 将基础设施错误归一为 storage.ErrStoreUnavailable。
func unavailable(op, key string, err error) error {
	return fmt.Errorf("%w: %s %s: %v", storage.ErrStoreUnavailable, op, key, err)
}
