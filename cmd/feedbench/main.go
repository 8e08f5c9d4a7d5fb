// feedbench 造数后逐页走完时间线，输出每页延迟分位
package main

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/d60-Lab/chirper/config"
	"github.com/d60-Lab/chirper/internal/model"
	"github.com/d60-Lab/chirper/internal/repository"
	"github.com/d60-Lab/chirper/internal/service"
	"github.com/d60-Lab/chirper/pkg/cursor"
	"github.com/d60-Lab/chirper/pkg/database"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func pct(vs []time.Duration, p float64) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	xs := append([]time.Duration(nil), vs...)
	sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
	k := int(math.Ceil(p*float64(len(xs)))) - 1
	if k < 0 {
		k = 0
	}
	if k >= len(xs) {
		k = len(xs) - 1
	}
	return xs[k]
}

func envInt(name string, def int) int {
	if s := os.Getenv(name); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			return v
		}
	}
	return def
}

func main() {
	cfg := must(config.Load())
	db := must(database.InitDB(cfg))
	defer database.Close(db)

	users := envInt("USERS", 200)   // 作者数
	posts := envInt("POSTS", 20000) // 帖子总数
	likes := envInt("LIKES", 50000) // 点赞总数
	fanout := envInt("FOLLOWS", 20) // 每个用户关注数
	limit := envInt("LIMIT", 20)    // 每页条数
	ctx := context.Background()

	// 清空数据便于重复运行（仅本地压测）
	for _, tbl := range []string{"likes", "comments", "follows", "posts", "users"} {
		_ = db.Exec("DELETE FROM " + tbl).Error
	}

	ids := make([]string, users)
	batch := make([]model.User, users)
	for i := range batch {
		ids[i] = uuid.NewString()
		name := "bench" + ids[i][:8]
		batch[i] = model.User{ID: ids[i], Name: &name, Email: ids[i][:8] + "@bench.local"}
	}
	must(0, db.CreateInBatches(&batch, 500).Error)

	// 每秒若干条，部分帖子共享同一时间戳
	base := time.Now().Add(-time.Duration(posts) * time.Second)
	postIDs := make([]string, posts)
	rows := make([]model.Post, 0, 1000)
	for i := 0; i < posts; i++ {
		postIDs[i] = uuid.NewString()
		rows = append(rows, model.Post{
			ID:        postIDs[i],
			UserID:    ids[rand.Intn(users)],
			Content:   fmt.Sprintf("bench post %d", i),
			CreatedAt: base.Add(time.Duration(i/3) * time.Second),
		})
		if len(rows) == cap(rows) || i == posts-1 {
			must(0, db.CreateInBatches(&rows, 500).Error)
			rows = rows[:0]
		}
	}

	// 造数失败不中断，但计数并打印首个错误，便于定位
	var followFails, likeFails seedFailures
	followRepo := repository.NewFollowRepository(db)
	for _, id := range ids {
		for j := 0; j < fanout; j++ {
			if target := ids[rand.Intn(users)]; target != id {
				followFails.add(followRepo.Create(ctx, id, target))
			}
		}
	}

	likeRepo := repository.NewLikeRepository(db)
	for i := 0; i < likes; i++ {
		_, err := likeRepo.Toggle(ctx, ids[rand.Intn(users)], postIDs[rand.Intn(posts)])
		likeFails.add(err)
	}
	followFails.report("follow")
	likeFails.report("like")

	feed := service.NewFeedService(repository.NewPostRepository(db))
	codec := cursor.NewCodec("bench")
	viewer := ids[0]

	fmt.Printf("USERS=%d POSTS=%d LIKES=%d FOLLOWS=%d LIMIT=%d driver=%s\n", users, posts, likes, fanout, limit, cfg.Database.Driver)
	seen := walk(ctx, "all", feed, codec, service.AllPosts(), limit, viewer)
	walk(ctx, "following", feed, codec, service.FollowingOf(viewer), limit, viewer)
	if seen != posts {
		fmt.Printf("WARNING: walked %d items, expected %d\n", seen, posts)
		os.Exit(1)
	}
}

type seedFailures struct {
	count int
	first error
}

func (s *seedFailures) add(err error) {
	if err == nil {
		return
	}
	if s.count == 0 {
		s.first = err
	}
	s.count++
}

func (s *seedFailures) report(name string) {
	if s.count > 0 {
		fmt.Printf("seed %s failures=%d first=%v\n", name, s.count, s.first)
	}
}

// walk 从首页翻到末页，返回条目总数
func walk(ctx context.Context, name string, feed service.FeedService, codec *cursor.Codec, filter service.FeedFilter, limit int, viewer string) int {
	var (
		cur       *cursor.Cursor
		durations []time.Duration
		seen      int
	)
	for {
		st := time.Now()
		page := must(feed.FetchFeedPage(ctx, filter, cur, limit, viewer))
		durations = append(durations, time.Since(st))
		seen += len(page.Items)
		if page.NextCursor == nil {
			break
		}
		// 走一遍编解码，模拟 HTTP 往返
		cur = must(codec.Decode(codec.Encode(*page.NextCursor)))
	}

	var sum time.Duration
	for _, d := range durations {
		sum += d
	}
	fmt.Printf("[%s] pages=%d items=%d\n", name, len(durations), seen)
	fmt.Printf("[%s] page latency: avg=%v p50=%v p95=%v p99=%v\n", name,
		sum/time.Duration(len(durations)), pct(durations, 0.5), pct(durations, 0.95), pct(durations, 0.99))
	return seen
}
