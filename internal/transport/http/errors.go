package httptransport

import (
	"errors"

	"smail/backend/internal/domain"
	"smail/backend/internal/lease"
	"smail/backend/internal/storage"
)

// errorMessages 错误到中文提示的映射表
var errorMessages = map[error]string{
	domain.ErrLocalPartLength:    "邮箱名长度必须在 3 到 32 个字符之间",
	domain.ErrLocalPartCharset:   "邮箱名只能包含小写字母、数字、点、下划线和连字符",
	domain.ErrLocalPartEdgePunct: "邮箱名不能以点、下划线或连字符开头或结尾",
	lease.ErrAddressTaken:        "该邮箱地址已被占用",
	lease.ErrRetryExhausted:      "邮箱分配繁忙，请稍后重试",
	storage.ErrStoreUnavailable:  "存储服务暂不可用，请稍后重试",
	storage.ErrMessageNotFound:   "邮件不存在",
}

// messageFor 返回错误对应的中文提示，未映射的错误返回通用提示
func messageFor(err error) string {
	for sentinel, msg := range errorMessages {
		if errors.Is(err, sentinel) {
			return msg
		}
	}
	return "服务器内部错误"
}
