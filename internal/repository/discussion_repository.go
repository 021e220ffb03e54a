package repository

import (
	"time"

	"gorm.io/gorm"

	"mgit-community-go/internal/model"
)

// CategoryStat 是单个分类的统计结果。
type CategoryStat struct {
	Threads  int64 `json:"threads"`
	Messages int64 `json:"messages"`
}

// DiscussionRepository 定义了讨论帖的数据操作方法。
type DiscussionRepository interface {
	Create(discussion *model.Discussion) error
	FindByID(id string) (*model.Discussion, error)
	FindByIDWithReplies(id string) (*model.Discussion, error)
	FindRecent(limit int) ([]model.Discussion, error)
	FindByCategory(category, sortBy string, since *time.Time, limit int) ([]model.Discussion, error)
	AddLikes(id string, delta int) error
	IncrementViews(id string) error
	Touch(id string) error
	CategoryStats() (map[string]CategoryStat, error)
}

type discussionRepository struct {
	db *gorm.DB
}

// NewDiscussionRepository 创建一个新的 DiscussionRepository 实例。
func NewDiscussionRepository(db *gorm.DB) DiscussionRepository {
	return &discussionRepository{db: db}
}

// Create 在数据库中插入一个新的讨论帖。
func (r *discussionRepository) Create(discussion *model.Discussion) error {
	return r.db.Create(discussion).Error
}

// FindByID 根据 ID 查找讨论帖，不加载回复。
func (r *discussionRepository) FindByID(id string) (*model.Discussion, error) {
	var discussion model.Discussion
	err := r.db.Where("id = ?", id).First(&discussion).Error
	if err != nil {
		return nil, err
	}
	return &discussion, nil
}

// FindByIDWithReplies 根据 ID 查找讨论帖并加载全部回复。
// 回复按创建时间升序，作为树构建时的兄弟顺序。
func (r *discussionRepository) FindByIDWithReplies(id string) (*model.Discussion, error) {
	var discussion model.Discussion
	err := r.db.Preload("Replies", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC")
	}).Where("id = ?", id).First(&discussion).Error
	if err != nil {
		return nil, err
	}
	return &discussion, nil
}

// FindRecent 返回首页展示的讨论帖，按创建时间升序取前 limit 条。
func (r *discussionRepository) FindRecent(limit int) ([]model.Discussion, error) {
	var discussions []model.Discussion
	err := r.db.Order("created_at ASC").Limit(limit).Find(&discussions).Error
	return discussions, err
}

// FindByCategory 按分类检索讨论帖。
// sortBy: latest=最新创建, popular=浏览量最高, unanswered=回复最少。
// since 不为 nil 时只统计该时间之后创建的帖子。
func (r *discussionRepository) FindByCategory(category, sortBy string, since *time.Time, limit int) ([]model.Discussion, error) {
	query := r.db.Model(&model.Discussion{}).Where("category = ?", category)
	if since != nil {
		query = query.Where("created_at >= ?", *since)
	}

	switch sortBy {
	case "popular":
		query = query.Order("views DESC")
	case "unanswered":
		query = query.
			Joins("LEFT JOIN replies ON replies.discussion_id = discussions.id").
			Group("discussions.id").
			Order("COUNT(replies.id) ASC")
	default: // latest
		query = query.Order("created_at DESC")
	}

	var discussions []model.Discussion
	err := query.Limit(limit).Preload("Replies", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC")
	}).Find(&discussions).Error
	return discussions, err
}

// AddLikes 对点赞计数做原子增减，计数允许为负。
func (r *discussionRepository) AddLikes(id string, delta int) error {
	result := r.db.Model(&model.Discussion{}).Where("id = ?", id).
		UpdateColumn("likes", gorm.Expr("likes + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// IncrementViews 原子地把浏览量加一，不触发 updated_at。
func (r *discussionRepository) IncrementViews(id string) error {
	return r.db.Model(&model.Discussion{}).Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}

// Touch 只刷新讨论帖的更新时间，不改动任何内容字段。
func (r *discussionRepository) Touch(id string) error {
	result := r.db.Model(&model.Discussion{}).Where("id = ?", id).
		UpdateColumn("updated_at", time.Now())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CategoryStats 按分类统计主题数与回复数。
func (r *discussionRepository) CategoryStats() (map[string]CategoryStat, error) {
	type row struct {
		Category string
		Count    int64
	}

	var threadRows []row
	err := r.db.Model(&model.Discussion{}).
		Select("category, COUNT(*) AS count").
		Group("category").
		Scan(&threadRows).Error
	if err != nil {
		return nil, err
	}

	var replyRows []row
	err = r.db.Model(&model.Reply{}).
		Select("discussions.category AS category, COUNT(replies.id) AS count").
		Joins("JOIN discussions ON discussions.id = replies.discussion_id").
		Group("discussions.category").
		Scan(&replyRows).Error
	if err != nil {
		return nil, err
	}

	stats := make(map[string]CategoryStat, len(threadRows))
	for _, tr := range threadRows {
		stats[tr.Category] = CategoryStat{Threads: tr.Count}
	}
	for _, rr := range replyRows {
		s := stats[rr.Category]
		s.Messages = rr.Count
		stats[rr.Category] = s
	}
	return stats, nil
}
