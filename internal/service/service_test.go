package service

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/d60-Lab/chirper/internal/cache"
	"github.com/d60-Lab/chirper/internal/repository"
	"github.com/d60-Lab/chirper/internal/testutil"
)

type fixture struct {
	db       *gorm.DB
	posts    repository.PostRepository
	users    repository.UserRepository
	likes    repository.LikeRepository
	follows  repository.FollowRepository
	comments repository.CommentRepository
}

func newFixture(t *testing.T) *fixture {
	db := testutil.NewDB(t)
	return &fixture{
		db:       db,
		posts:    repository.NewPostRepository(db),
		users:    repository.NewUserRepository(db),
		likes:    repository.NewLikeRepository(db),
		follows:  repository.NewFollowRepository(db),
		comments: repository.NewCommentRepository(db),
	}
}

// seed
//
//	alice: p9(t3) p5(t3)   bob: p7(t2) p1(t1)   carol: follows bob, liked p9
func (f *fixture) seed(t *testing.T) {
	testutil.MustUser(t, f.db, "alice")
	testutil.MustUser(t, f.db, "bob")
	testutil.MustUser(t, f.db, "carol")
	testutil.MustPost(t, f.db, "p9", "alice", testutil.At(3))
	testutil.MustPost(t, f.db, "p5", "alice", testutil.At(3))
	testutil.MustPost(t, f.db, "p7", "bob", testutil.At(2))
	testutil.MustPost(t, f.db, "p1", "bob", testutil.At(1))
	testutil.MustFollow(t, f.db, "carol", "bob")
	testutil.MustLike(t, f.db, "carol", "p9")
}

func newRedisCache(t *testing.T) (*cache.RedisProfileCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.NewRedisProfileCache(client, time.Minute), mr
}

func viewIDs(items []*PostView) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}
