package service

import (
	"context"
	"errors"

	"github.com/d60-Lab/chirper/internal/model"
	"github.com/d60-Lab/chirper/internal/repository"
)

type CommentService interface {
	Add(ctx context.Context, viewerID, postID, content string) (*CommentView, error)
	List(ctx context.Context, postID string) ([]*CommentView, error)
}

type commentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	userRepo    repository.UserRepository
}

func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository, userRepo repository.UserRepository) CommentService {
	return &commentService{commentRepo: commentRepo, postRepo: postRepo, userRepo: userRepo}
}

func (s *commentService) Add(ctx context.Context, viewerID, postID, content string) (*CommentView, error) {
	if viewerID == "" {
		return nil, ErrUnauthenticated
	}
	if err := s.ensurePost(ctx, postID); err != nil {
		return nil, err
	}
	text, err := sanitizeText("content", content, MaxCommentLength)
	if err != nil {
		return nil, err
	}
	author, err := s.userRepo.GetByID(ctx, viewerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	c := &model.Comment{UserID: viewerID, PostID: postID, Content: text}
	if err := s.commentRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	return &CommentView{
		ID:        c.ID,
		PostID:    postID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		Author:    authorViewFromUser(author),
	}, nil
}

// List 最新在前
func (s *commentService) List(ctx context.Context, postID string) ([]*CommentView, error) {
	if err := s.ensurePost(ctx, postID); err != nil {
		return nil, err
	}
	items, err := s.commentRepo.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	res := make([]*CommentView, len(items))
	for i, c := range items {
		res[i] = &CommentView{
			ID:        c.ID,
			PostID:    c.PostID,
			Content:   c.Content,
			CreatedAt: c.CreatedAt.UTC(),
			Author:    authorViewFromUser(&c.User),
		}
	}
	return res, nil
}

func (s *commentService) ensurePost(ctx context.Context, postID string) error {
	ok, err := s.postRepo.Exists(ctx, postID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrPostNotFound
	}
	return nil
}
