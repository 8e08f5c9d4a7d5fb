package service

import (
	"time"

	"github.com/d60-Lab/chirper/internal/model"
	"github.com/d60-Lab/chirper/internal/repository"
)

// AuthorView 作者摘要
type AuthorView struct {
	ID    string  `json:"id"`
	Name  *string `json:"name"`
	Image *string `json:"image"`
}

// PostView 时间线中的一条帖子
type PostView struct {
	ID           string     `json:"id"`
	Content      string     `json:"content"`
	CreatedAt    time.Time  `json:"created_at"`
	Author       AuthorView `json:"author"`
	LikeCount    int64      `json:"like_count"`
	CommentCount int64      `json:"comment_count"`
	IsLiked      bool       `json:"is_liked"`
}

// CommentView 评论
type CommentView struct {
	ID        string     `json:"id"`
	PostID    string     `json:"post_id"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"created_at"`
	Author    AuthorView `json:"author"`
}

func postViewFromRow(r *repository.FeedRow) *PostView {
	return &PostView{
		ID:           r.ID,
		Content:      r.Content,
		CreatedAt:    r.CreatedAt.UTC(),
		Author:       AuthorView{ID: r.UserID, Name: r.AuthorName, Image: r.AuthorImage},
		LikeCount:    r.LikeCount,
		CommentCount: r.CommentCount,
		IsLiked:      r.IsLiked,
	}
}

func authorViewFromUser(u *model.User) AuthorView {
	return AuthorView{ID: u.ID, Name: u.Name, Image: u.Image}
}
