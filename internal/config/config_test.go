package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	// 保存原始环境变量
	originalEnvs := make(map[string]string)
	envKeys := []string{
		"SMAIL_SERVER_HOST",
		"SMAIL_SERVER_PORT",
		"SMAIL_LEASE_DOMAIN",
		"SMAIL_LEASE_TTL",
		"SMAIL_LEASE_RETRY_BUDGET",
		"SMAIL_LEASE_CONFLICT_FALLBACK",
		"SMAIL_REDIS_ADDRESS",
		"SMAIL_DATABASE_DSN",
		"SMAIL_CORS_ALLOWED_ORIGINS",
		"SMAIL_RATELIMIT_CLAIMS_PER_MINUTE",
		"SMAIL_LOG_LEVEL",
		"SMAIL_LOG_DEVELOPMENT",
	}

	for _, key := range envKeys {
		originalEnvs[key] = os.Getenv(key)
	}

	// 测试后恢复环境变量
	defer func() {
		for key, value := range originalEnvs {
			if value == "" {
				os.Unsetenv(key)
			} else {
				os.Setenv(key, value)
			}
		}
	}()

	clearEnvs := func() {
		for _, key := range envKeys {
			os.Unsetenv(key)
		}
	}

	t.Run("加载默认配置成功", func(t *testing.T) {
		clearEnvs()

		cfg, err := Load()

		assert.NoError(t, err)
		assert.NotNil(t, cfg)

		// 验证默认值
		assert.Equal(t, "0.0.0.0", cfg.Server.Host)
		assert.Equal(t, 8080, cfg.Server.Port)
		assert.Equal(t, "smail.pw", cfg.Lease.Domain)
		assert.Equal(t, 24*time.Hour, cfg.Lease.TTL)
		assert.Equal(t, 5, cfg.Lease.RetryBudget)
		assert.False(t, cfg.Lease.ConflictFallback)
		assert.Equal(t, "", cfg.Redis.Address)
		assert.Equal(t, "", cfg.Database.DSN)
		assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
		assert.Equal(t, 30, cfg.RateLimit.ClaimsPerMinute)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.False(t, cfg.Log.Development)
	})

	t.Run("加载自定义配置成功", func(t *testing.T) {
		clearEnvs()
		os.Setenv("SMAIL_SERVER_HOST", "127.0.0.1")
		os.Setenv("SMAIL_SERVER_PORT", "9090")
		os.Setenv("SMAIL_LEASE_DOMAIN", "Mail.Example.COM")
		os.Setenv("SMAIL_LEASE_TTL", "2h")
		os.Setenv("SMAIL_LEASE_RETRY_BUDGET", "8")
		os.Setenv("SMAIL_LEASE_CONFLICT_FALLBACK", "true")
		os.Setenv("SMAIL_REDIS_ADDRESS", "redis:6379")
		os.Setenv("SMAIL_CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

		cfg, err := Load()

		assert.NoError(t, err)
		assert.Equal(t, "127.0.0.1", cfg.Server.Host)
		assert.Equal(t, 9090, cfg.Server.Port)
		// 域名归一为小写
		assert.Equal(t, "mail.example.com", cfg.Lease.Domain)
		assert.Equal(t, 2*time.Hour, cfg.Lease.TTL)
		assert.Equal(t, 8, cfg.Lease.RetryBudget)
		assert.True(t, cfg.Lease.ConflictFallback)
		assert.Equal(t, "redis:6379", cfg.Redis.Address)
		assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	})

	t.Run("非法TTL返回错误", func(t *testing.T) {
		clearEnvs()
		os.Setenv("SMAIL_LEASE_TTL", "not-a-duration")

		cfg, err := Load()

		assert.Error(t, err)
		assert.Nil(t, cfg)
	})

	t.Run("空域名返回错误", func(t *testing.T) {
		clearEnvs()
		os.Setenv("SMAIL_LEASE_DOMAIN", "   ")

		cfg, err := Load()

		assert.Error(t, err)
		assert.Nil(t, cfg)
	})

	t.Run("非正的重试预算回退到默认值", func(t *testing.T) {
		clearEnvs()
		os.Setenv("SMAIL_LEASE_RETRY_BUDGET", "0")

		cfg, err := Load()

		assert.NoError(t, err)
		assert.Equal(t, 5, cfg.Lease.RetryBudget)
	})
}

func TestParseList(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected []string
	}{
		{"Single item", "a", []string{"a"}},
		{"Multiple items", "a,b,c", []string{"a", "b", "c"}},
		{"Items with spaces", " a , b ", []string{"a", "b"}},
		{"Empty segments dropped", "a,,b,", []string{"a", "b"}},
		{"Empty string", "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseList(tt.value))
		})
	}
}
