package service

import (
	"errors"
)

var (
	ErrFollowSelf         = errors.New("cannot follow self")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrPostNotFound       = errors.New("post not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrDuplicateLike 并发重复点赞触发唯一约束；调用方重新读取状态即可
	ErrDuplicateLike = errors.New("like toggled concurrently")
	// ErrDuplicateFollow 同上，作用于关注关系
	ErrDuplicateFollow = errors.New("follow toggled concurrently")
)

// ErrInvalidLimit 分页大小必须为正数
var ErrInvalidLimit = &ValidationError{Field: "limit", Message: "limit must be a positive integer"}

// ValidationError 参数校验错误，携带字段名
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsValidationError 判断是否参数错误（支持 wrap）
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
