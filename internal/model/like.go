package model

import "time"

// Like 点赞；(user_id, post_id) 复合主键，同一用户对同一帖子至多一行
type Like struct {
	UserID    string    `gorm:"primaryKey;type:varchar(36)"`
	PostID    string    `gorm:"primaryKey;type:varchar(36);index:idx_like_post"`
	CreatedAt time.Time
}

func (Like) TableName() string { return "likes" }
