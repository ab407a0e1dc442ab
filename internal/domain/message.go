package domain

import "time"

// Message 表示投递到某个邮箱地址的一封邮件。
//
// 邮件由外部投递管道写入持久存储，本服务只读取；删除租约不会删除
// 已投递的邮件。
type Message struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Address   string    `json:"address" gorm:"type:varchar(255);index"`
	Sender    string    `json:"sender" gorm:"type:varchar(255)"`
	Subject   string    `json:"subject" gorm:"type:varchar(512)"`
	Body      string    `json:"body" gorm:"type:text"`
	Read      bool      `json:"read" gorm:"default:false"`
	CreatedAt time.Time `json:"createdAt" gorm:"index"`
}
