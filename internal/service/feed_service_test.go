package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/chirper/internal/testutil"
	"github.com/d60-Lab/chirper/pkg/cursor"
)

func TestFeedService_PageAndNextCursor(t *testing.T) {
	f := newFixture(t)
	f.seed(t)
	svc := NewFeedService(f.posts)
	ctx := context.Background()

	page, err := svc.FetchFeedPage(ctx, AllPosts(), nil, 2, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"p9", "p5"}, viewIDs(page.Items))
	require.NotNil(t, page.NextCursor)
	assert.Equal(t, "p5", page.NextCursor.ID)
	assert.True(t, testutil.At(3).Equal(page.NextCursor.CreatedAt))

	page, err = svc.FetchFeedPage(ctx, AllPosts(), page.NextCursor, 2, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"p7", "p1"}, viewIDs(page.Items))
	assert.Nil(t, page.NextCursor)
}

func TestFeedService_ExactFitHasNoNextPage(t *testing.T) {
	f := newFixture(t)
	f.seed(t)
	svc := NewFeedService(f.posts)

	page, err := svc.FetchFeedPage(context.Background(), AllPosts(), nil, 4, "")
	require.NoError(t, err)
	assert.Len(t, page.Items, 4)
	assert.Nil(t, page.NextCursor)
}

func TestFeedService_WalkVisitsEveryPostOnce(t *testing.T) {
	f := newFixture(t)
	testutil.MustUser(t, f.db, "alice")
	// 多条同一时间戳，验证 id 作为次序键
	for i := 0; i < 23; i++ {
		testutil.MustPost(t, f.db, string(rune('a'+i)), "alice", testutil.At(i/3))
	}
	svc := NewFeedService(f.posts)
	ctx := context.Background()

	for _, limit := range []int{1, 2, 5, 7, 50} {
		seen := map[string]bool{}
		var (
			cur   *cursor.Cursor
			order []*PostView
		)
		for {
			page, err := svc.FetchFeedPage(ctx, AllPosts(), cur, limit, "")
			require.NoError(t, err)
			assert.LessOrEqual(t, len(page.Items), limit)
			for _, it := range page.Items {
				assert.False(t, seen[it.ID], "duplicate %s at limit %d", it.ID, limit)
				seen[it.ID] = true
				order = append(order, it)
			}
			if page.NextCursor == nil {
				break
			}
			cur = page.NextCursor
		}
		assert.Len(t, seen, 23, "limit %d", limit)
		for i := 1; i < len(order); i++ {
			prev := cursor.Cursor{CreatedAt: order[i-1].CreatedAt, ID: order[i-1].ID}
			assert.True(t, prev.After(order[i].CreatedAt, order[i].ID), "order broken at %d", i)
		}
	}
}

func TestFeedService_InvalidLimit(t *testing.T) {
	svc := NewFeedService(newFixture(t).posts)
	for _, limit := range []int{0, -1} {
		_, err := svc.FetchFeedPage(context.Background(), AllPosts(), nil, limit, "")
		assert.ErrorIs(t, err, ErrInvalidLimit)
		assert.True(t, IsValidationError(err))
	}
}

func TestFeedService_Filters(t *testing.T) {
	f := newFixture(t)
	f.seed(t)
	svc := NewFeedService(f.posts)
	ctx := context.Background()

	tests := []struct {
		name   string
		filter FeedFilter
		viewer string
		want   []string
	}{
		{name: "following without viewer falls back", filter: FollowingOf(""), want: []string{"p9", "p5", "p7", "p1"}},
		{name: "following uses viewer", filter: FollowingOf(""), viewer: "carol", want: []string{"p7", "p1"}},
		{name: "following nobody", filter: FollowingOf("alice"), viewer: "alice", want: []string{}},
		{name: "author", filter: AuthoredBy("alice"), want: []string{"p9", "p5"}},
		{name: "liked", filter: LikedBy("carol"), want: []string{"p9"}},
		{name: "replied nothing", filter: RepliedBy("carol"), want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := svc.FetchFeedPage(ctx, tt.filter, nil, 10, tt.viewer)
			require.NoError(t, err)
			assert.Equal(t, tt.want, viewIDs(page.Items))
			assert.Nil(t, page.NextCursor)
		})
	}

	_, err := svc.FetchFeedPage(ctx, AuthoredBy(""), nil, 10, "")
	assert.True(t, IsValidationError(err))
}

func TestFeedService_ViewerLikeState(t *testing.T) {
	f := newFixture(t)
	f.seed(t)
	svc := NewFeedService(f.posts)
	ctx := context.Background()

	page, err := svc.FetchFeedPage(ctx, AllPosts(), nil, 10, "carol")
	require.NoError(t, err)
	liked := map[string]bool{}
	for _, it := range page.Items {
		liked[it.ID] = it.IsLiked
	}
	assert.Equal(t, map[string]bool{"p9": true, "p5": false, "p7": false, "p1": false}, liked)
	assert.EqualValues(t, 1, page.Items[0].LikeCount)
	assert.Equal(t, "alice", page.Items[0].Author.ID)

	anon, err := svc.FetchFeedPage(ctx, AllPosts(), nil, 10, "")
	require.NoError(t, err)
	for _, it := range anon.Items {
		assert.False(t, it.IsLiked)
	}
}
