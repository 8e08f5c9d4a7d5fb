package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/chirper/internal/cache"
)

func TestProfileService_Get(t *testing.T) {
	f := newFixture(t)
	f.seed(t)
	rc, mr := newRedisCache(t)
	svc := NewProfileService(f.users, f.posts, f.follows, rc)
	ctx := context.Background()

	p, err := svc.Get(ctx, "bob", "carol")
	require.NoError(t, err)
	assert.Equal(t, "bob", p.ID)
	assert.Equal(t, cache.ProfileStats{Posts: 2, Followers: 1, Follows: 0}, p.Stats)
	assert.True(t, p.IsFollowing)
	assert.False(t, p.IsSelf)
	assert.True(t, mr.Exists("profile:stats:bob"))

	p, err = svc.Get(ctx, "bob", "alice")
	require.NoError(t, err)
	assert.False(t, p.IsFollowing)
	hits, _ := rc.Counters()
	assert.EqualValues(t, 1, hits)

	p, err = svc.Get(ctx, "bob", "bob")
	require.NoError(t, err)
	assert.True(t, p.IsSelf)
	assert.False(t, p.IsFollowing)

	_, err = svc.Get(ctx, "nobody", "")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestProfileService_ServesCachedStats(t *testing.T) {
	f := newFixture(t)
	f.seed(t)
	rc, _ := newRedisCache(t)
	svc := NewProfileService(f.users, f.posts, f.follows, rc)
	ctx := context.Background()

	rc.Set(ctx, "alice", &cache.ProfileStats{Posts: 42})
	p, err := svc.Get(ctx, "alice", "")
	require.NoError(t, err)
	assert.EqualValues(t, 42, p.Stats.Posts)
}
