package repository

import "errors"

var (
	// ErrNotFound 记录不存在
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate 唯一约束冲突（并发下重复写入同一关系）
	ErrDuplicate = errors.New("duplicate record")
)
