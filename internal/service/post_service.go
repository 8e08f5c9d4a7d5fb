package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/d60-Lab/chirper/internal/cache"
	"github.com/d60-Lab/chirper/internal/model"
	"github.com/d60-Lab/chirper/internal/repository"
	"github.com/d60-Lab/chirper/pkg/logger"
)

type PostService interface {
	Create(ctx context.Context, viewerID, content string) (*PostView, error)
	Get(ctx context.Context, postID, viewerID string) (*PostView, error)
}

type postService struct {
	postRepo repository.PostRepository
	cache    cache.ProfileCache
}

func NewPostService(postRepo repository.PostRepository, profileCache cache.ProfileCache) PostService {
	if profileCache == nil {
		profileCache = cache.Nop{}
	}
	return &postService{postRepo: postRepo, cache: profileCache}
}

// Create 发帖：清洗内容后落库，并使作者主页计数失效
func (s *postService) Create(ctx context.Context, viewerID, content string) (*PostView, error) {
	if viewerID == "" {
		return nil, ErrUnauthenticated
	}
	text, err := sanitizeText("content", content, MaxPostLength)
	if err != nil {
		return nil, err
	}
	post := &model.Post{UserID: viewerID, Content: text}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, viewerID)
	logger.Debug("post created", zap.String("post", post.ID), zap.String("user", viewerID))
	return s.Get(ctx, post.ID, viewerID)
}

func (s *postService) Get(ctx context.Context, postID, viewerID string) (*PostView, error) {
	row, err := s.postRepo.GetView(ctx, postID, viewerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return postViewFromRow(row), nil
}
