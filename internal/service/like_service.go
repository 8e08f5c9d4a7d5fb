package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/d60-Lab/chirper/internal/repository"
	"github.com/d60-Lab/chirper/pkg/logger"
)

// LikeResult 切换后的点赞状态与最新计数
type LikeResult struct {
	PostID    string `json:"post_id"`
	Liked     bool   `json:"liked"`
	LikeCount int64  `json:"like_count"`
}

type LikeService interface {
	Toggle(ctx context.Context, viewerID, postID string) (*LikeResult, error)
	State(ctx context.Context, viewerID, postID string) (*LikeResult, error)
}

type likeService struct {
	likeRepo repository.LikeRepository
	postRepo repository.PostRepository
	userRepo repository.UserRepository
}

func NewLikeService(likeRepo repository.LikeRepository, postRepo repository.PostRepository, userRepo repository.UserRepository) LikeService {
	return &likeService{likeRepo: likeRepo, postRepo: postRepo, userRepo: userRepo}
}

// Toggle 已点赞则取消，否则点赞
func (s *likeService) Toggle(ctx context.Context, viewerID, postID string) (*LikeResult, error) {
	if err := s.check(ctx, viewerID, postID); err != nil {
		return nil, err
	}
	liked, err := s.likeRepo.Toggle(ctx, viewerID, postID)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			logger.Info("concurrent like detected", zap.String("user", viewerID), zap.String("post", postID))
			return nil, fmt.Errorf("%w: %v", ErrDuplicateLike, err)
		}
		return nil, err
	}
	cnt, err := s.likeRepo.CountByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	return &LikeResult{PostID: postID, Liked: liked, LikeCount: cnt}, nil
}

// State 读取当前点赞状态，用于冲突后回读
func (s *likeService) State(ctx context.Context, viewerID, postID string) (*LikeResult, error) {
	if err := s.check(ctx, viewerID, postID); err != nil {
		return nil, err
	}
	liked, err := s.likeRepo.Exists(ctx, viewerID, postID)
	if err != nil {
		return nil, err
	}
	cnt, err := s.likeRepo.CountByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	return &LikeResult{PostID: postID, Liked: liked, LikeCount: cnt}, nil
}

func (s *likeService) check(ctx context.Context, viewerID, postID string) error {
	if viewerID == "" {
		return ErrUnauthenticated
	}
	// likes 表不对 users 建外键，这里确认查看者存在
	if _, err := s.userRepo.GetByID(ctx, viewerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUnauthenticated
		}
		return err
	}
	ok, err := s.postRepo.Exists(ctx, postID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrPostNotFound
	}
	return nil
}
