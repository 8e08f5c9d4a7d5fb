package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/chirper/internal/service"
	"github.com/d60-Lab/chirper/pkg/response"
)

// ViewerKey gin context 中当前查看者 user id 的键
const ViewerKey = "viewer_id"

// Authenticator 将 bearer token 解析为 user id。
// 拒绝 token 时返回 service.ErrUnauthenticated，其余错误按 500 处理
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (string, error)
}

// OptionalViewer 解析 Authorization 头；无 token 时匿名放行，token 非法或用户不存在返回 401
func OptionalViewer(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.Next()
			return
		}
		userID, err := auth.Authenticate(c.Request.Context(), tok)
		if err != nil {
			if errors.Is(err, service.ErrUnauthenticated) {
				response.Unauthorized(c, "invalid or expired token")
			} else {
				response.InternalError(c, err)
			}
			c.Abort()
			return
		}
		c.Set(ViewerKey, userID)
		c.Next()
	}
}

// RequireViewer 必须已登录，需放在 OptionalViewer 之后
func RequireViewer() gin.HandlerFunc {
	return func(c *gin.Context) {
		if Viewer(c) == "" {
			response.Unauthorized(c, "authentication required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// Viewer 返回当前查看者，匿名时为空串
func Viewer(c *gin.Context) string {
	return c.GetString(ViewerKey)
}

func bearerToken(header string) (string, bool) {
	const prefix = "bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	tok := strings.TrimSpace(header[len(prefix):])
	return tok, tok != ""
}
