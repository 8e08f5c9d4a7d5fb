package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/d60-Lab/chirper/internal/cache"
	"github.com/d60-Lab/chirper/internal/repository"
)

// RelationshipService 关系链服务
type RelationshipService interface {
	// Toggle 已关注则取关，否则关注；返回切换后的状态
	Toggle(ctx context.Context, fromUserID, toUserID string) (bool, error)
	ListFollowing(ctx context.Context, userID string, page, pageSize int) ([]AuthorView, error)
	ListFans(ctx context.Context, userID string, page, pageSize int) ([]AuthorView, error)
}

type relationshipService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
	cache      cache.ProfileCache
}

func NewRelationshipService(followRepo repository.FollowRepository, userRepo repository.UserRepository, profileCache cache.ProfileCache) RelationshipService {
	if profileCache == nil {
		profileCache = cache.Nop{}
	}
	return &relationshipService{followRepo: followRepo, userRepo: userRepo, cache: profileCache}
}

func (s *relationshipService) Toggle(ctx context.Context, fromUserID, toUserID string) (bool, error) {
	if fromUserID == "" {
		return false, ErrUnauthenticated
	}
	if fromUserID == toUserID {
		return false, ErrFollowSelf
	}
	if err := s.ensureUser(ctx, toUserID); err != nil {
		return false, err
	}
	following, err := s.followRepo.Toggle(ctx, fromUserID, toUserID)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return false, fmt.Errorf("%w: %v", ErrDuplicateFollow, err)
		}
		return false, err
	}
	// 双方的关注数 / 粉丝数都变了
	s.cache.Invalidate(ctx, fromUserID, toUserID)
	return following, nil
}

func (s *relationshipService) ListFollowing(ctx context.Context, userID string, page, pageSize int) ([]AuthorView, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}
	offset, limit := pageWindow(page, pageSize)
	items, err := s.followRepo.ListFollowings(ctx, userID, offset, limit)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.FolloweeID
	}
	return s.resolve(ctx, ids)
}

func (s *relationshipService) ListFans(ctx context.Context, userID string, page, pageSize int) ([]AuthorView, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}
	offset, limit := pageWindow(page, pageSize)
	items, err := s.followRepo.ListFollowers(ctx, userID, offset, limit)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.FollowerID
	}
	return s.resolve(ctx, ids)
}

func (s *relationshipService) resolve(ctx context.Context, ids []string) ([]AuthorView, error) {
	users, err := s.userRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	res := make([]AuthorView, len(users))
	for i, u := range users {
		res[i] = authorViewFromUser(u)
	}
	return res, nil
}

func (s *relationshipService) ensureUser(ctx context.Context, userID string) error {
	_, err := s.userRepo.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}

func pageWindow(page, pageSize int) (offset, limit int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	return (page - 1) * pageSize, pageSize
}
