package lease

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// 令牌原始字节长度；16 字节编码为 32 个十六进制字符
const tokenBytes = 16

// TokenSource 提供不可猜测的释放令牌，作为能力注入，测试可替换为
// 确定性实现。
type TokenSource interface {
	Token() (string, error)
}

// cryptoTokenSource 默认实现，使用 crypto/rand。
type cryptoTokenSource struct{}

func (cryptoTokenSource) Token() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate lease token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
