package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"smail/backend/internal/config"
	"smail/backend/internal/domain"
	"smail/backend/internal/storage"
)

// Store 基于 PostgreSQL 的邮件读取仓库。
//
// 邮件表由外部投递管道写入；本仓库只负责列表、读取与已读标记。
type Store struct {
	db  *gorm.DB
	log *zap.Logger
}

// New 创建 PostgreSQL 邮件仓库并验证连通性。
func New(cfg *config.DatabaseConfig, log *zap.Logger) (*Store, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("database DSN is required")
	}
	if log == nil {
		log = zap.NewNop()
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access database pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// 读取侧同样维护表结构，避免投递管道先行建表的部署顺序要求
	if err := db.AutoMigrate(&domain.Message{}); err != nil {
		return nil, fmt.Errorf("failed to migrate messages table: %w", err)
	}

	log.Info("connected to PostgreSQL",
		zap.Int("max_open_conns", cfg.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.MaxIdleConns),
	)

	return &Store{db: db, log: log}, nil
}

// ListMessages 返回某地址收到的全部邮件，按接收时间倒序。
func (s *Store) ListMessages(ctx context.Context, address string) ([]domain.Message, error) {
	var messages []domain.Message
	err := s.db.WithContext(ctx).
		Where("address = ?", address).
		Order("created_at DESC").
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}

// GetMessage 读取某地址下的单封邮件。
func (s *Store) GetMessage(ctx context.Context, address, messageID string) (*domain.Message, error) {
	var message domain.Message
	err := s.db.WithContext(ctx).
		Where("id = ? AND address = ?", messageID, address).
		First(&message).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, storage.ErrMessageNotFound
		}
		return nil, fmt.Errorf("failed to get message: %w", err)
	}
	return &message, nil
}

// MarkMessageRead 标记邮件为已读。
func (s *Store) MarkMessageRead(ctx context.Context, address, messageID string) error {
	result := s.db.WithContext(ctx).
		Model(&domain.Message{}).
		Where("id = ? AND address = ?", messageID, address).
		Update("read", true)
	if result.Error != nil {
		return fmt.Errorf("failed to mark message read: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return storage.ErrMessageNotFound
	}
	return nil
}

// Ping 测试数据库连接，用于健康检查。
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close 关闭数据库连接池。
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.Close(); err != nil {
		return err
	}
	s.log.Info("PostgreSQL connection closed")
	return nil
}
