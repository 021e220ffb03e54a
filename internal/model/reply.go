package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Reply 对应于数据库中的 'replies' 表。
// ParentReplyID 指向同一讨论内的另一条回复，为 NULL 时表示顶层回复；
// 使用指针以接受 NULL 值。树形结构只在读取时由扁平记录重建。
type Reply struct {
	ID            string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	DiscussionID  string    `gorm:"type:varchar(36);not null;index" json:"discussionId"`
	ParentReplyID *string   `gorm:"type:varchar(36);index" json:"parentReplyId"`
	Content       string    `gorm:"type:text;not null" json:"content"`
	GuestName     string    `gorm:"type:varchar(100);not null" json:"guestName"`
	Likes         int       `gorm:"not null;default:0" json:"likes"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// BeforeCreate 在插入前生成服务端分配的回复 ID。
func (r *Reply) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

func (Reply) TableName() string {
	return "replies"
}

// ReplyNode 是渲染用的回复树节点：在 Reply 之上附加有序的子回复列表。
// 不落库，只在读取时构建。
type ReplyNode struct {
	Reply
	ChildReplies []*ReplyNode `json:"childReplies"`
}
