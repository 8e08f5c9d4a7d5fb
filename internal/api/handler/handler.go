package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/chirper/config"
	"github.com/d60-Lab/chirper/internal/service"
	"github.com/d60-Lab/chirper/pkg/cursor"
	"github.com/d60-Lab/chirper/pkg/response"
)

// Services handler 依赖的业务服务
type Services struct {
	Auth     service.AuthService
	Feed     service.FeedService
	Post     service.PostService
	Like     service.LikeService
	Comment  service.CommentService
	Relation service.RelationshipService
	Profile  service.ProfileService
}

type Handler struct {
	authService    service.AuthService
	feedService    service.FeedService
	postService    service.PostService
	likeService    service.LikeService
	commentService service.CommentService
	relService     service.RelationshipService
	profileService service.ProfileService

	cursors *cursor.Codec
	feedCfg config.FeedConfig
}

func NewHandler(svcs Services, cursors *cursor.Codec, feedCfg config.FeedConfig) *Handler {
	return &Handler{
		authService:    svcs.Auth,
		feedService:    svcs.Feed,
		postService:    svcs.Post,
		likeService:    svcs.Like,
		commentService: svcs.Comment,
		relService:     svcs.Relation,
		profileService: svcs.Profile,
		cursors:        cursors,
		feedCfg:        feedCfg,
	}
}

// handleError 业务错误到响应码的映射，未识别的按 500 处理
func handleError(c *gin.Context, err error) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		response.BadRequest(c, ve.Message)
	case errors.Is(err, cursor.ErrInvalid):
		response.BadRequest(c, "invalid cursor")
	case errors.Is(err, service.ErrFollowSelf):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrUnauthenticated),
		errors.Is(err, service.ErrInvalidCredentials):
		response.Unauthorized(c, err.Error())
	case errors.Is(err, service.ErrPostNotFound),
		errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrEmailTaken):
		response.Conflict(c, err.Error())
	default:
		response.InternalError(c, err)
	}
}
