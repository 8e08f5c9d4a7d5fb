// Package testutil 提供基于内存 sqlite 的测试库与造数工具
package testutil

import (
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/d60-Lab/chirper/internal/model"
	"github.com/d60-Lab/chirper/pkg/database"
)

// NewDB 打开一个独立的内存 sqlite 并完成迁移。
// 连接池限制为 1：":memory:" 库只存在于单个连接上。
func NewDB(tb testing.TB) *gorm.DB {
	tb.Helper()
	db, err := database.Open("sqlite", ":memory:", "silent")
	if err != nil {
		tb.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetConnMaxLifetime(0)
	if err := database.Migrate(db); err != nil {
		tb.Fatalf("migrate: %v", err)
	}
	tb.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func MustUser(tb testing.TB, db *gorm.DB, id string) *model.User {
	tb.Helper()
	name := "user " + id
	u := &model.User{ID: id, Name: &name, Email: id + "@example.com"}
	if err := db.Create(u).Error; err != nil {
		tb.Fatalf("create user %s: %v", id, err)
	}
	return u
}

func MustPost(tb testing.TB, db *gorm.DB, id, userID string, createdAt time.Time) *model.Post {
	tb.Helper()
	p := &model.Post{ID: id, UserID: userID, Content: "post " + id, CreatedAt: createdAt}
	if err := db.Create(p).Error; err != nil {
		tb.Fatalf("create post %s: %v", id, err)
	}
	return p
}

func MustLike(tb testing.TB, db *gorm.DB, userID, postID string) {
	tb.Helper()
	if err := db.Create(&model.Like{UserID: userID, PostID: postID}).Error; err != nil {
		tb.Fatalf("like %s/%s: %v", userID, postID, err)
	}
}

func MustComment(tb testing.TB, db *gorm.DB, userID, postID string) *model.Comment {
	tb.Helper()
	c := &model.Comment{UserID: userID, PostID: postID, Content: "reply from " + userID}
	if err := db.Create(c).Error; err != nil {
		tb.Fatalf("comment %s/%s: %v", userID, postID, err)
	}
	return c
}

func MustFollow(tb testing.TB, db *gorm.DB, followerID, followeeID string) {
	tb.Helper()
	f := &model.Follow{ID: followerID + "->" + followeeID, FollowerID: followerID, FolloweeID: followeeID}
	if err := db.Create(f).Error; err != nil {
		tb.Fatalf("follow %s->%s: %v", followerID, followeeID, err)
	}
}

// At 返回固定基准时间加 n 秒，便于构造有序数据
func At(n int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(n) * time.Second)
}
