package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLikeService_Toggle(t *testing.T) {
	f := newFixture(t)
	f.seed(t)
	svc := NewLikeService(f.likes, f.posts, f.users)
	feed := NewFeedService(f.posts)
	ctx := context.Background()

	res, err := svc.Toggle(ctx, "bob", "p5")
	require.NoError(t, err)
	assert.True(t, res.Liked)
	assert.EqualValues(t, 1, res.LikeCount)

	page, err := feed.FetchFeedPage(ctx, AuthoredBy("alice"), nil, 10, "bob")
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "p5", page.Items[1].ID)
	assert.True(t, page.Items[1].IsLiked)

	// 第二次切换恢复原状
	res, err = svc.Toggle(ctx, "bob", "p5")
	require.NoError(t, err)
	assert.False(t, res.Liked)
	assert.EqualValues(t, 0, res.LikeCount)

	state, err := svc.State(ctx, "carol", "p9")
	require.NoError(t, err)
	assert.True(t, state.Liked)
}

func TestLikeService_Errors(t *testing.T) {
	f := newFixture(t)
	f.seed(t)
	svc := NewLikeService(f.likes, f.posts, f.users)
	ctx := context.Background()

	_, err := svc.Toggle(ctx, "", "p9")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = svc.Toggle(ctx, "bob", "missing")
	assert.ErrorIs(t, err, ErrPostNotFound)

	// 已删除的用户不能留下点赞
	_, err = svc.Toggle(ctx, "ghost", "p9")
	assert.ErrorIs(t, err, ErrUnauthenticated)
	n, err := f.likes.CountByPost(ctx, "p9")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}
