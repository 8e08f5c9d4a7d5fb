package service

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/d60-Lab/chirper/internal/repository"
	"github.com/d60-Lab/chirper/pkg/cursor"
	"github.com/d60-Lab/chirper/pkg/logger"
)

const tracerName = "github.com/d60-Lab/chirper/internal/service"

// FeedFilter 时间线过滤条件；UserID 对 following 以外的范围必填
type FeedFilter struct {
	Scope  repository.FeedScope
	UserID string
}

func AllPosts() FeedFilter { return FeedFilter{Scope: repository.ScopeAll} }

// FollowingOf viewerID 为空时由 FetchFeedPage 的 viewer 补全
func FollowingOf(viewerID string) FeedFilter {
	return FeedFilter{Scope: repository.ScopeFollowing, UserID: viewerID}
}

func AuthoredBy(userID string) FeedFilter {
	return FeedFilter{Scope: repository.ScopeAuthor, UserID: userID}
}

func LikedBy(userID string) FeedFilter {
	return FeedFilter{Scope: repository.ScopeLikedBy, UserID: userID}
}

func RepliedBy(userID string) FeedFilter {
	return FeedFilter{Scope: repository.ScopeRepliedBy, UserID: userID}
}

// FeedPage 一页结果；NextCursor 为 nil 表示没有更多
type FeedPage struct {
	Items      []*PostView
	NextCursor *cursor.Cursor
}

type FeedService interface {
	FetchFeedPage(ctx context.Context, filter FeedFilter, cur *cursor.Cursor, limit int, viewerID string) (*FeedPage, error)
}

type feedService struct {
	postRepo repository.PostRepository
}

func NewFeedService(postRepo repository.PostRepository) FeedService {
	return &feedService{postRepo: postRepo}
}

// FetchFeedPage 按 (created_at DESC, id DESC) 返回游标之后的至多 limit 条。
// 多取一行判断是否还有下一页，下一页游标取本页最后一条。
func (s *feedService) FetchFeedPage(ctx context.Context, filter FeedFilter, cur *cursor.Cursor, limit int, viewerID string) (page *FeedPage, err error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "FeedService.FetchFeedPage", trace.WithSpanKind(trace.SpanKindInternal))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if limit <= 0 {
		return nil, ErrInvalidLimit
	}
	filter, err = s.resolve(filter, viewerID)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(
		attribute.String("feed.scope", filter.Scope.String()),
		attribute.Int("feed.limit", limit),
		attribute.Bool("feed.has_cursor", cur != nil),
	)

	rows, err := s.postRepo.ListFeed(ctx, repository.FeedQuery{
		Scope:    filter.Scope,
		UserID:   filter.UserID,
		Cursor:   cur,
		Limit:    limit + 1,
		ViewerID: viewerID,
	})
	if err != nil {
		return nil, err
	}

	page = &FeedPage{Items: make([]*PostView, 0, limit)}
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		page.NextCursor = &cursor.Cursor{CreatedAt: last.CreatedAt.UTC(), ID: last.ID}
	}
	for _, r := range rows {
		page.Items = append(page.Items, postViewFromRow(r))
	}
	span.SetAttributes(attribute.Int("feed.items", len(page.Items)))
	return page, nil
}

// resolve 补全过滤条件：未登录时关注流退化为全部帖子
func (s *feedService) resolve(filter FeedFilter, viewerID string) (FeedFilter, error) {
	switch filter.Scope {
	case repository.ScopeAll:
		return filter, nil
	case repository.ScopeFollowing:
		if filter.UserID == "" {
			filter.UserID = viewerID
		}
		if filter.UserID == "" {
			logger.Debug("following feed without viewer, falling back to all posts", zap.String("scope", filter.Scope.String()))
			return AllPosts(), nil
		}
		return filter, nil
	case repository.ScopeAuthor, repository.ScopeLikedBy, repository.ScopeRepliedBy:
		if filter.UserID == "" {
			return filter, NewValidationError("user_id", "user id is required for "+filter.Scope.String()+" feed")
		}
		return filter, nil
	default:
		return filter, errors.New("unknown feed scope")
	}
}
