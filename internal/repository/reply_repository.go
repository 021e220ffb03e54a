package repository

import (
	"gorm.io/gorm"

	"mgit-community-go/internal/model"
)

// ReplyRepository 定义了回复的数据操作方法。
type ReplyRepository interface {
	Create(reply *model.Reply) error
	FindByID(id string) (*model.Reply, error)
	AddLikes(id string, delta int) error
}

type replyRepository struct {
	db *gorm.DB
}

// NewReplyRepository 创建一个新的 ReplyRepository 实例。
func NewReplyRepository(db *gorm.DB) ReplyRepository {
	return &replyRepository{db: db}
}

// Create 在数据库中插入一条新的回复。
func (r *replyRepository) Create(reply *model.Reply) error {
	return r.db.Create(reply).Error
}

// FindByID 根据 ID 查找一条回复。
func (r *replyRepository) FindByID(id string) (*model.Reply, error) {
	var reply model.Reply
	err := r.db.Where("id = ?", id).First(&reply).Error
	if err != nil {
		return nil, err
	}
	return &reply, nil
}

// AddLikes 对回复的带符号计数做原子增减。
func (r *replyRepository) AddLikes(id string, delta int) error {
	result := r.db.Model(&model.Reply{}).Where("id = ?", id).
		UpdateColumn("likes", gorm.Expr("likes + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
