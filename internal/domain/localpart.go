package domain

import (
	"errors"
	"strings"
)

// 本地部分验证相关的错误定义
var (
	ErrLocalPartLength    = errors.New("local part length out of range")
	ErrLocalPartCharset   = errors.New("local part contains invalid characters")
	ErrLocalPartEdgePunct = errors.New("local part starts or ends with punctuation")
)

// 本地部分长度限制
const (
	MinLocalPartLength = 3  // 自定义前缀最小长度
	MaxLocalPartLength = 32 // 自定义前缀最大长度
)

// NormalizeLocalPart 规范化并验证用户提供的邮箱前缀。
//
// 输入先去除首尾空白并转为小写。规范化后为空串表示"无偏好"，
// 返回 ("", nil)，由调用方回退到随机生成；这不是错误。
// 非空时依次检查长度、字符集、首尾标点，不合法则返回对应错误。
//
// 纯函数，无副作用，相同输入始终得到相同结果。
func NormalizeLocalPart(raw string) (string, error) {
	localPart := strings.ToLower(strings.TrimSpace(raw))
	if localPart == "" {
		return "", nil
	}

	if len(localPart) < MinLocalPartLength || len(localPart) > MaxLocalPartLength {
		return "", ErrLocalPartLength
	}

	for _, r := range localPart {
		if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '.' || r == '_' || r == '-') {
			return "", ErrLocalPartCharset
		}
	}

	if isPunct(localPart[0]) || isPunct(localPart[len(localPart)-1]) {
		return "", ErrLocalPartEdgePunct
	}

	return localPart, nil
}

// isPunct 判断是否为不允许出现在首尾的标点字符
func isPunct(b byte) bool {
	return b == '.' || b == '_' || b == '-'
}
