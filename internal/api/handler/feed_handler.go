package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/chirper/internal/api/middleware"
	"github.com/d60-Lab/chirper/internal/service"
	"github.com/d60-Lab/chirper/pkg/response"
)

// FeedPageResponse 一页时间线；next_cursor 缺省表示已到末尾
type FeedPageResponse struct {
	Items      []*service.PostView `json:"items"`
	NextCursor string              `json:"next_cursor,omitempty"`
}

// GetFeed 首页时间线
// @Summary 首页时间线（游标分页）
// @Tags 时间线
// @Produce json
// @Param only_following query bool false "只看关注的人"
// @Param limit query int false "每页数量(1-50)" default(10)
// @Param cursor query string false "上一页返回的 next_cursor"
// @Success 200 {object} response.Response{data=FeedPageResponse}
// @Failure 400 {object} response.Response
// @Router /api/v1/feed [get]
func (h *Handler) GetFeed(c *gin.Context) {
	filter := service.AllPosts()
	if onlyFollowing, _ := strconv.ParseBool(c.Query("only_following")); onlyFollowing {
		filter = service.FollowingOf(middleware.Viewer(c))
	}
	h.servePage(c, filter)
}

// ListUserPosts 用户发布的帖子
// @Summary 用户帖子
// @Tags 时间线
// @Produce json
// @Param id path string true "用户ID"
// @Param limit query int false "每页数量(1-50)" default(10)
// @Param cursor query string false "游标"
// @Success 200 {object} response.Response{data=FeedPageResponse}
// @Router /api/v1/users/{id}/posts [get]
func (h *Handler) ListUserPosts(c *gin.Context) {
	h.servePage(c, service.AuthoredBy(c.Param("id")))
}

// ListUserLikes 用户点赞过的帖子
// @Summary 用户点赞
// @Tags 时间线
// @Produce json
// @Param id path string true "用户ID"
// @Param limit query int false "每页数量(1-50)" default(10)
// @Param cursor query string false "游标"
// @Success 200 {object} response.Response{data=FeedPageResponse}
// @Router /api/v1/users/{id}/likes [get]
func (h *Handler) ListUserLikes(c *gin.Context) {
	h.servePage(c, service.LikedBy(c.Param("id")))
}

// ListUserReplies 用户评论过的帖子
// @Summary 用户回复
// @Tags 时间线
// @Produce json
// @Param id path string true "用户ID"
// @Param limit query int false "每页数量(1-50)" default(10)
// @Param cursor query string false "游标"
// @Success 200 {object} response.Response{data=FeedPageResponse}
// @Router /api/v1/users/{id}/replies [get]
func (h *Handler) ListUserReplies(c *gin.Context) {
	h.servePage(c, service.RepliedBy(c.Param("id")))
}

func (h *Handler) servePage(c *gin.Context, filter service.FeedFilter) {
	limit, ok := h.parseLimit(c)
	if !ok {
		return
	}
	cur, err := h.cursors.Decode(c.Query("cursor"))
	if err != nil {
		handleError(c, err)
		return
	}
	page, err := h.feedService.FetchFeedPage(c.Request.Context(), filter, cur, limit, middleware.Viewer(c))
	if err != nil {
		handleError(c, err)
		return
	}
	resp := FeedPageResponse{Items: page.Items}
	if page.NextCursor != nil {
		resp.NextCursor = h.cursors.Encode(*page.NextCursor)
	}
	response.Success(c, resp)
}

// parseLimit 缺省取配置默认值，超出 [1, MaxLimit] 返回 400
func (h *Handler) parseLimit(c *gin.Context) (int, bool) {
	raw, present := c.GetQuery("limit")
	if !present || raw == "" {
		return h.feedCfg.DefaultLimit, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 || limit > h.feedCfg.MaxLimit {
		response.BadRequest(c, "limit must be between 1 and "+strconv.Itoa(h.feedCfg.MaxLimit))
		return 0, false
	}
	return limit, true
}

