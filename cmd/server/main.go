package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"smail/backend/internal/config"
	"smail/backend/internal/health"
	"smail/backend/internal/lease"
	"smail/backend/internal/logger"
	"smail/backend/internal/monitoring"
	"smail/backend/internal/namegen"
	"smail/backend/internal/service"
	"smail/backend/internal/storage"
	"smail/backend/internal/storage/memory"
	"smail/backend/internal/storage/postgres"
	"smail/backend/internal/storage/redis"
	httptransport "smail/backend/internal/transport/http"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server exited: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("加载配置失败: %w", err)
	}

	log, err := logger.NewLogger(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.Log.Development,
	})
	if err != nil {
		return fmt.Errorf("初始化日志失败: %w", err)
	}
	defer log.Sync()

	if cfg.Log.Development {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// 租约存储：配置了 Redis 地址走 Redis，否则用内存实现（单副本开发模式）
	var leaseStore storage.LeaseStore
	var memoryStore *memory.Store
	if cfg.Redis.Address != "" {
		redisStore, err := redis.New(&cfg.Redis, log)
		if err != nil {
			return fmt.Errorf("连接 Redis 失败: %w", err)
		}
		defer redisStore.Close()
		leaseStore = redisStore
		log.Info("lease store ready", zap.String("backend", "redis"),
			zap.String("address", cfg.Redis.Address))
	} else {
		memoryStore = memory.NewStore()
		leaseStore = memoryStore
		log.Warn("lease store running in memory mode, leases do not survive restarts")
	}

	// 邮件读取库：配置了 DSN 走 PostgreSQL，否则复用内存存储
	var messageRepo storage.MessageRepository
	if cfg.Database.DSN != "" {
		pgStore, err := postgres.New(&cfg.Database, log)
		if err != nil {
			return fmt.Errorf("连接数据库失败: %w", err)
		}
		defer pgStore.Close()
		messageRepo = pgStore
		log.Info("message repository ready", zap.String("backend", "postgres"))
	} else {
		if memoryStore == nil {
			memoryStore = memory.NewStore()
		}
		messageRepo = memoryStore
		log.Warn("message repository running in memory mode")
	}

	leaseManager := lease.NewManager(leaseStore, namegen.New(), lease.Options{
		Domain:           cfg.Lease.Domain,
		TTL:              cfg.Lease.TTL,
		RetryBudget:      cfg.Lease.RetryBudget,
		ConflictFallback: cfg.Lease.ConflictFallback,
	}, log)

	router := httptransport.NewRouter(httptransport.RouterDependencies{
		Config:       cfg,
		LeaseManager: leaseManager,
		Messages:     service.NewMessageService(messageRepo),
		Metrics:      monitoring.NewMetrics(),
		Health:       health.NewHealthChecker(leaseStore, messageRepo, log),
		Logger:       log,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		log.Info("server listening",
			zap.String("addr", server.Addr),
			zap.String("domain", cfg.Lease.Domain),
			zap.Duration("lease_ttl", cfg.Lease.TTL),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP 服务异常退出: %w", err)
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		log.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("优雅关闭失败: %w", err)
		}
		log.Info("server stopped")
		return nil
	})

	return group.Wait()
}
