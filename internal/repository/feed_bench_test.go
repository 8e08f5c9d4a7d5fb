package repository

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"gorm.io/gorm"

	"github.com/d60-Lab/chirper/internal/model"
	"github.com/d60-Lab/chirper/internal/testutil"
	"github.com/d60-Lab/chirper/pkg/cursor"
)

// setupFeedBenchDB 构造：users 个用户，每人 postsPerUser 条帖子，u0000 关注前 follow 个用户
func setupFeedBenchDB(b *testing.B, users, postsPerUser, follow int) *gorm.DB {
	db := testutil.NewDB(b)

	us := make([]model.User, users)
	for i := range us {
		id := fmt.Sprintf("u%04d", i)
		us[i] = model.User{ID: id, Email: id + "@example.com"}
	}
	if err := db.CreateInBatches(&us, 500).Error; err != nil {
		b.Fatalf("seed users: %v", err)
	}

	rnd := rand.New(rand.NewSource(42))
	posts := make([]model.Post, 0, users*postsPerUser)
	for i := 0; i < users*postsPerUser; i++ {
		posts = append(posts, model.Post{
			ID:        fmt.Sprintf("p%06d", i),
			UserID:    us[rnd.Intn(users)].ID,
			Content:   "bench",
			CreatedAt: testutil.At(rnd.Intn(users * postsPerUser / 2)), // 制造大量同一时间戳
		})
	}
	if err := db.CreateInBatches(&posts, 500).Error; err != nil {
		b.Fatalf("seed posts: %v", err)
	}

	for i := 1; i <= follow && i < users; i++ {
		testutil.MustFollow(b, db, us[0].ID, us[i].ID)
	}
	for i := 0; i < len(posts); i += 3 {
		testutil.MustLike(b, db, us[0].ID, posts[i].ID)
	}
	return db
}

func BenchmarkListFeed_FirstPage(b *testing.B) {
	repo := NewPostRepository(setupFeedBenchDB(b, 200, 20, 50))
	ctx := context.Background()

	for _, scope := range []FeedScope{ScopeAll, ScopeFollowing, ScopeLikedBy} {
		b.Run(scope.String(), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				_, _ = repo.ListFeed(ctx, FeedQuery{Scope: scope, UserID: "u0000", ViewerID: "u0000", Limit: 21})
			}
		})
	}
}

// BenchmarkListFeed_WalkAll 沿游标翻到底
func BenchmarkListFeed_WalkAll(b *testing.B) {
	repo := NewPostRepository(setupFeedBenchDB(b, 200, 20, 50))
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var cur *cursor.Cursor
		for {
			rows, err := repo.ListFeed(ctx, FeedQuery{Scope: ScopeAll, Cursor: cur, Limit: 50})
			if err != nil {
				b.Fatal(err)
			}
			if len(rows) < 50 {
				break
			}
			last := rows[len(rows)-1]
			cur = &cursor.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}
		}
	}
}
