package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/d60-Lab/chirper/internal/model"
	"github.com/d60-Lab/chirper/pkg/cursor"
)

// FeedScope 时间线过滤范围
type FeedScope int

const (
	ScopeAll       FeedScope = iota // 全部
	ScopeFollowing                  // UserID 关注的作者
	ScopeAuthor                     // UserID 发布的
	ScopeLikedBy                    // UserID 点赞过的
	ScopeRepliedBy                  // UserID 评论过的
)

func (s FeedScope) String() string {
	switch s {
	case ScopeFollowing:
		return "following"
	case ScopeAuthor:
		return "author"
	case ScopeLikedBy:
		return "liked"
	case ScopeRepliedBy:
		return "replied"
	default:
		return "all"
	}
}

// FeedQuery 一次时间线查询；Limit 为实际取数行数（调用方负责 +1 探测下一页）
type FeedQuery struct {
	Scope    FeedScope
	UserID   string
	Cursor   *cursor.Cursor
	Limit    int
	ViewerID string
}

// FeedRow 帖子 + 作者 + 聚合计数 + 当前查看者点赞状态
type FeedRow struct {
	ID           string
	UserID       string
	Content      string
	CreatedAt    time.Time
	AuthorName   *string
	AuthorImage  *string
	LikeCount    int64
	CommentCount int64
	IsLiked      bool
}

type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	Exists(ctx context.Context, id string) (bool, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
	GetView(ctx context.Context, id, viewerID string) (*FeedRow, error)
	ListFeed(ctx context.Context, q FeedQuery) ([]*FeedRow, error)
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository { return &postRepository{db: db} }

func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) Exists(ctx context.Context, id string) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).Model(&model.Post{}).Where("id = ?", id).Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *postRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Post{}).Where("user_id = ?", userID).Count(&cnt).Error
	return cnt, err
}

// GetView 单条帖子视图，不存在返回 ErrNotFound
func (r *postRepository) GetView(ctx context.Context, id, viewerID string) (*FeedRow, error) {
	var rows []*FeedRow
	err := r.baseQuery(ctx, viewerID).
		Where("posts.id = ?", id).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return rows[0], nil
}

// ListFeed 按 (created_at DESC, id DESC) seek 分页，游标本身不包含在结果中
func (r *postRepository) ListFeed(ctx context.Context, q FeedQuery) ([]*FeedRow, error) {
	if q.Limit <= 0 {
		return nil, errors.New("feed query limit must be positive")
	}

	tx := r.baseQuery(ctx, q.ViewerID)

	switch q.Scope {
	case ScopeFollowing:
		tx = tx.Where("posts.user_id IN (SELECT followee_id FROM follows WHERE follower_id = ?)", q.UserID)
	case ScopeAuthor:
		tx = tx.Where("posts.user_id = ?", q.UserID)
	case ScopeLikedBy:
		tx = tx.Where("EXISTS (SELECT 1 FROM likes WHERE likes.post_id = posts.id AND likes.user_id = ?)", q.UserID)
	case ScopeRepliedBy:
		tx = tx.Where("EXISTS (SELECT 1 FROM comments WHERE comments.post_id = posts.id AND comments.user_id = ?)", q.UserID)
	}

	if q.Cursor != nil {
		ts := model.Normalize(q.Cursor.CreatedAt)
		tx = tx.Where("(posts.created_at < ? OR (posts.created_at = ? AND posts.id < ?))", ts, ts, q.Cursor.ID)
	}

	var rows []*FeedRow
	err := tx.Order("posts.created_at DESC").
		Order("posts.id DESC").
		Limit(q.Limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// baseQuery 计数为读时聚合；查看者为空时 is_liked 恒为 false
func (r *postRepository) baseQuery(ctx context.Context, viewerID string) *gorm.DB {
	const columns = `posts.id, posts.user_id, posts.content, posts.created_at,
		users.name AS author_name, users.image AS author_image,
		(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id) AS like_count,
		(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comment_count`

	tx := r.db.WithContext(ctx).Table("posts").Joins("JOIN users ON users.id = posts.user_id")
	if viewerID == "" {
		return tx.Select(columns + `, FALSE AS is_liked`)
	}
	return tx.Select(columns+`,
		EXISTS (SELECT 1 FROM likes WHERE likes.post_id = posts.id AND likes.user_id = ?) AS is_liked`, viewerID)
}
