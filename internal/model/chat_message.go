// Package model 包含了应用的数据模型定义。
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChatMessage 代表公共聊天室中的一条消息。创建后不可变。
type ChatMessage struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Sender    string    `gorm:"type:varchar(100);not null;default:'Guest'" json:"sender"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"createdAt"`
}

// BeforeCreate 在插入前生成服务端分配的消息 ID。
func (m *ChatMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
