package domain

import "time"

// Lease 表示某个邮箱地址上的一次租约。
//
// 租约以 "mailbox:<address>" 为键存放在共享键值后端中，值为授权释放
// 的不透明令牌，过期由后端的原生 TTL 强制执行。键存在当且仅当地址
// 当前被占用。
type Lease struct {
	Address   string    `json:"address"`   // 完整邮箱地址 localPart@domain
	Token     string    `json:"token"`     // 授权释放租约的不透明令牌
	ExpiresAt time.Time `json:"expiresAt"` // 后端 TTL 到期时间（尽力而为）
}

// MailboxKey 返回地址在共享键值后端中的租约键。
func MailboxKey(address string) string {
	return "mailbox:" + address
}
