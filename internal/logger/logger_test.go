package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	t.Run("生产模式创建成功", func(t *testing.T) {
		log, err := NewLogger(Config{Level: "info"})
		require.NoError(t, err)
		require.NotNil(t, log)
		assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
		assert.False(t, log.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("非法级别回退到info", func(t *testing.T) {
		log, err := NewLogger(Config{Level: "not-a-level"})
		require.NoError(t, err)
		assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
		assert.False(t, log.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("配置日志文件时创建目录并写入", func(t *testing.T) {
		logFile := filepath.Join(t.TempDir(), "logs", "server.log")

		log, err := NewLogger(Config{Level: "info", LogFile: logFile})
		require.NoError(t, err)

		// lumberjack 的写入不走缓冲，Info 返回即已落盘；
		// Sync 在标准输出上可能报错，这里不检查其返回值
		log.Info("写入测试")
		_ = log.Sync()

		content, err := os.ReadFile(logFile)
		require.NoError(t, err)
		assert.Contains(t, string(content), "写入测试")
	})
}

func TestNewDevelopmentLogger(t *testing.T) {
	log := NewDevelopmentLogger()
	require.NotNil(t, log)
	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))
}
