package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/d60-Lab/chirper/internal/model"
	"github.com/d60-Lab/chirper/internal/repository"
	"github.com/d60-Lab/chirper/pkg/logger"
	"github.com/d60-Lab/chirper/pkg/token"
)

const (
	minPasswordLen = 8
	maxNameLen     = 64
)

// RegisterInput 注册参数
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Image    string
}

// AuthResult 登录成功返回的 token
type AuthResult struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expires_at"`
	User      AuthorView `json:"user"`
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	// Authenticate 解析 token 返回 user id
	Authenticate(ctx context.Context, tok string) (string, error)
}

type authService struct {
	userRepo repository.UserRepository
	tokens   *token.Manager
	cost     int
}

func NewAuthService(userRepo repository.UserRepository, tokens *token.Manager) AuthService {
	return &authService{userRepo: userRepo, tokens: tokens, cost: bcrypt.DefaultCost}
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, NewValidationError("email", "invalid email address")
	}
	if len(in.Password) < minPasswordLen {
		return nil, NewValidationError("password", "password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, err
	}

	u := &model.User{Email: email, PasswordHash: string(hash)}
	if name := strings.TrimSpace(in.Name); name != "" {
		if utf8.RuneCountInString(name) > maxNameLen {
			return nil, NewValidationError("name", "name is too long")
		}
		u.Name = &name
	}
	if image := strings.TrimSpace(in.Image); image != "" {
		u.Image = &image
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	logger.Info("user registered", zap.String("user", u.ID))
	return s.issue(u)
}

func (s *authService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	u, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issue(u)
}

// Authenticate 签名有效且用户仍存在才认为已登录
func (s *authService) Authenticate(ctx context.Context, tok string) (string, error) {
	userID, err := s.tokens.Parse(tok)
	if err != nil {
		return "", ErrUnauthenticated
	}
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrUnauthenticated
		}
		return "", err
	}
	return userID, nil
}

func (s *authService) issue(u *model.User) (*AuthResult, error) {
	tok, exp, err := s.tokens.Issue(u.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: tok, ExpiresAt: exp, User: authorViewFromUser(u)}, nil
}
