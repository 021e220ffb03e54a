// Package repository 提供了数据访问层的实现。
package repository

import (
	"gorm.io/gorm"

	"mgit-community-go/internal/model"
)

// ChatMessageRepository 定义了聊天消息的数据操作方法。
type ChatMessageRepository interface {
	Create(message *model.ChatMessage) error
	FindRecent(limit int) ([]model.ChatMessage, error)
}

type chatMessageRepository struct {
	db *gorm.DB
}

// NewChatMessageRepository 创建一个新的 ChatMessageRepository 实例。
func NewChatMessageRepository(db *gorm.DB) ChatMessageRepository {
	return &chatMessageRepository{db: db}
}

// Create 在数据库中插入一条新的聊天消息。
func (r *chatMessageRepository) Create(message *model.ChatMessage) error {
	return r.db.Create(message).Error
}

// FindRecent 返回最近的 limit 条消息，按创建时间升序排列。
// 先按时间倒序取最近的一段，再反转为升序，与前端展示顺序一致。
func (r *chatMessageRepository) FindRecent(limit int) ([]model.ChatMessage, error) {
	var messages []model.ChatMessage
	err := r.db.Order("created_at DESC").Limit(limit).Find(&messages).Error
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}
