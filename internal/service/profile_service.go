package service

import (
	"context"
	"errors"
	"time"

	"github.com/d60-Lab/chirper/internal/cache"
	"github.com/d60-Lab/chirper/internal/repository"
)

// ProfileView 用户主页头部
type ProfileView struct {
	AuthorView
	CreatedAt   time.Time          `json:"created_at"`
	Stats       cache.ProfileStats `json:"stats"`
	IsFollowing bool               `json:"is_following"`
	IsSelf      bool               `json:"is_self"`
}

type ProfileService interface {
	Get(ctx context.Context, userID, viewerID string) (*ProfileView, error)
}

type profileService struct {
	userRepo   repository.UserRepository
	postRepo   repository.PostRepository
	followRepo repository.FollowRepository
	cache      cache.ProfileCache
}

func NewProfileService(userRepo repository.UserRepository, postRepo repository.PostRepository, followRepo repository.FollowRepository, profileCache cache.ProfileCache) ProfileService {
	if profileCache == nil {
		profileCache = cache.Nop{}
	}
	return &profileService{userRepo: userRepo, postRepo: postRepo, followRepo: followRepo, cache: profileCache}
}

func (s *profileService) Get(ctx context.Context, userID, viewerID string) (*ProfileView, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	stats, err := s.stats(ctx, userID)
	if err != nil {
		return nil, err
	}
	view := &ProfileView{
		AuthorView: authorViewFromUser(u),
		CreatedAt:  u.CreatedAt.UTC(),
		Stats:      *stats,
		IsSelf:     viewerID != "" && viewerID == userID,
	}
	if viewerID != "" && !view.IsSelf {
		view.IsFollowing, err = s.followRepo.Exists(ctx, viewerID, userID)
		if err != nil {
			return nil, err
		}
	}
	return view, nil
}

// stats 先读缓存，未命中时回源数据库并回填
func (s *profileService) stats(ctx context.Context, userID string) (*cache.ProfileStats, error) {
	if st, ok := s.cache.Get(ctx, userID); ok {
		return st, nil
	}
	var (
		st  cache.ProfileStats
		err error
	)
	if st.Posts, err = s.postRepo.CountByUser(ctx, userID); err != nil {
		return nil, err
	}
	if st.Followers, err = s.followRepo.CountFollowers(ctx, userID); err != nil {
		return nil, err
	}
	if st.Follows, err = s.followRepo.CountFollowings(ctx, userID); err != nil {
		return nil, err
	}
	s.cache.Set(ctx, userID, &st)
	return &st, nil
}
