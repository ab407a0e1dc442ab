package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ServerConfig 定义 HTTP 服务器的监听配置参数
type ServerConfig struct {
	Host string // 监听地址，默认 "0.0.0.0"
	Port int    // 监听端口，默认 8080
}

// LeaseConfig 定义邮箱租约分配器的核心业务配置
type LeaseConfig struct {
	Domain           string        // 进程级邮箱域名，所有地址共用
	TTL              time.Duration // 租约生存时间，到期后地址自动变为可申领
	RetryBudget      int           // 随机候选冲突时的最大尝试次数
	ConflictFallback bool          // 自定义前缀冲突时是否回退到随机生成
}

// RedisConfig 定义 Redis 租约存储配置
type RedisConfig struct {
	Address  string // Redis 服务地址，格式 "host:port"；留空使用内存存储（开发模式）
	Password string // Redis 认证密码，留空表示无密码
	DB       int    // Redis 数据库编号，默认 0
}

// DatabaseConfig 定义邮件读取库的连接配置（PostgreSQL）
type DatabaseConfig struct {
	DSN             string        // 连接字符串；留空使用内存存储（开发模式）
	MaxOpenConns    int           // 最大打开连接数，默认 25
	MaxIdleConns    int           // 最大空闲连接数，默认 5
	ConnMaxLifetime time.Duration // 连接最大生命周期，默认 5 分钟
}

// CORSConfig 定义跨域资源共享 (CORS) 配置
type CORSConfig struct {
	AllowedOrigins []string // 允许的来源列表，"*" 表示允许所有来源
}

// RateLimitConfig 定义申领接口的限流配置
type RateLimitConfig struct {
	ClaimsPerMinute int // 单个 IP 每分钟允许的申领次数
}

// LogConfig 定义日志系统配置
type LogConfig struct {
	Level       string // 日志级别: debug, info, warn, error
	Development bool   // 开发模式: 启用彩色输出和详细堆栈信息
}

// Config 是系统核心配置的根结构体，包含所有子系统的配置
type Config struct {
	Server    ServerConfig    // HTTP 服务器配置
	Lease     LeaseConfig     // 租约分配器配置
	Redis     RedisConfig     // Redis 配置
	Database  DatabaseConfig  // 数据库配置
	CORS      CORSConfig      // 跨域配置
	RateLimit RateLimitConfig // 限流配置
	Log       LogConfig       // 日志配置
}

// Load 从环境变量和 .env 文件加载系统配置
//
// 配置加载优先级（从高到低）：
//  1. 系统环境变量（最高优先级）
//  2. .env 文件（如果存在）
//  3. 默认值
//
// 环境变量前缀: SMAIL_
// 例如: SMAIL_SERVER_PORT, SMAIL_LEASE_DOMAIN
func Load() (*Config, error) {
	// 尝试加载 .env 文件（静默失败，因为 .env 文件是可选的）
	loadEnvFile()

	viper.SetEnvPrefix("smail")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("lease.domain", "smail.pw")
	viper.SetDefault("lease.ttl", "24h")
	viper.SetDefault("lease.retry_budget", 5)
	viper.SetDefault("lease.conflict_fallback", false)
	viper.SetDefault("redis.address", "")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("database.dsn", "")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", "5m")
	viper.SetDefault("cors.allowed_origins", "*")
	viper.SetDefault("ratelimit.claims_per_minute", 30)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.development", false)

	leaseDomain := strings.ToLower(strings.TrimSpace(viper.GetString("lease.domain")))
	if leaseDomain == "" {
		return nil, fmt.Errorf("lease.domain must not be empty")
	}

	ttl, err := time.ParseDuration(viper.GetString("lease.ttl"))
	if err != nil {
		return nil, fmt.Errorf("invalid lease.ttl: %w", err)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("lease.ttl must be positive")
	}

	retryBudget := viper.GetInt("lease.retry_budget")
	if retryBudget <= 0 {
		retryBudget = 5
	}

	connMaxLifetime, err := time.ParseDuration(viper.GetString("database.conn_max_lifetime"))
	if err != nil {
		connMaxLifetime = 5 * time.Minute
	}

	corsOrigins := parseList(viper.GetString("cors.allowed_origins"))
	if len(corsOrigins) == 0 {
		corsOrigins = []string{"*"}
	}

	claimsPerMinute := viper.GetInt("ratelimit.claims_per_minute")
	if claimsPerMinute <= 0 {
		claimsPerMinute = 30
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: viper.GetString("server.host"),
			Port: viper.GetInt("server.port"),
		},
		Lease: LeaseConfig{
			Domain:           leaseDomain,
			TTL:              ttl,
			RetryBudget:      retryBudget,
			ConflictFallback: viper.GetBool("lease.conflict_fallback"),
		},
		Redis: RedisConfig{
			Address:  viper.GetString("redis.address"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		},
		Database: DatabaseConfig{
			DSN:             viper.GetString("database.dsn"),
			MaxOpenConns:    viper.GetInt("database.max_open_conns"),
			MaxIdleConns:    viper.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: connMaxLifetime,
		},
		CORS: CORSConfig{
			AllowedOrigins: corsOrigins,
		},
		RateLimit: RateLimitConfig{
			ClaimsPerMinute: claimsPerMinute,
		},
		Log: LogConfig{
			Level:       viper.GetString("log.level"),
			Development: viper.GetBool("log.development"),
		},
	}

	return cfg, nil
}

// parseList 将逗号分隔的字符串解析为字符串切片
func parseList(value string) []string {
	parts := strings.Split(value, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}

// loadEnvFile 尝试加载 .env 文件
//
// 加载顺序：
//  1. 当前目录的 .env
//  2. 父目录的 .env（用于从 backend/ 子目录运行的情况）
//
// 已存在的环境变量不会被覆盖。
func loadEnvFile() {
	if err := godotenv.Load(".env"); err == nil {
		return
	}

	parentEnv := filepath.Join("..", ".env")
	if _, err := os.Stat(parentEnv); err == nil {
		_ = godotenv.Load(parentEnv)
	}
}
