package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post 推文；创建后不可修改
// idx_post_created_id = (created_at, id)，时间线按 (created_at DESC, id DESC) 走 seek 分页
type Post struct {
	ID        string    `gorm:"primaryKey;type:varchar(36);index:idx_post_created_id,priority:2"`
	UserID    string    `gorm:"type:varchar(36);not null;index:idx_post_user_created,priority:1"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Content   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"not null;index:idx_post_created_id,priority:1;index:idx_post_user_created,priority:2"`
}

func (Post) TableName() string { return "posts" }

func (p *Post) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = Now()
	} else {
		p.CreatedAt = Normalize(p.CreatedAt)
	}
	return nil
}
