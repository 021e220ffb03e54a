package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 讨论帖的固定分类集合。
const (
	CategoryAcademic = "academic"
	CategoryGeneral  = "general"
	CategoryHelp     = "help"
)

// ValidCategory 判断给定分类是否在固定集合内。
func ValidCategory(category string) bool {
	switch category {
	case CategoryAcademic, CategoryGeneral, CategoryHelp:
		return true
	}
	return false
}

// Discussion 对应于数据库中的 'discussions' 表，代表一个讨论主题帖。
// Likes 不设下界：访客没有账号，并发取消点赞可能把计数减到负数，这是
// 刻意保留的宽松语义。
type Discussion struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title     string    `gorm:"type:varchar(255);not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Category  string    `gorm:"type:varchar(32);not null;index" json:"category"`
	GuestName string    `gorm:"type:varchar(100);not null" json:"guestName"`
	Likes     int       `gorm:"not null;default:0" json:"likes"`
	Views     int       `gorm:"not null;default:0" json:"views"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
	Replies   []Reply   `gorm:"foreignKey:DiscussionID" json:"replies"`
}

// BeforeCreate 在插入前生成服务端分配的讨论 ID。
func (d *Discussion) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}

func (Discussion) TableName() string {
	return "discussions"
}
