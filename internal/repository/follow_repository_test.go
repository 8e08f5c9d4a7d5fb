package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/chirper/internal/testutil"
)

func TestFollowRepository_ToggleAndCounts(t *testing.T) {
	db := testutil.NewDB(t)
	for _, u := range []string{"a", "b", "c"} {
		testutil.MustUser(t, db, u)
	}
	repo := NewFollowRepository(db)
	ctx := context.Background()

	following, err := repo.Toggle(ctx, "a", "b")
	require.NoError(t, err)
	assert.True(t, following)
	require.NoError(t, repo.Create(ctx, "c", "b"))
	// 幂等
	require.NoError(t, repo.Create(ctx, "c", "b"))

	n, err := repo.CountFollowers(ctx, "b")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	n, err = repo.CountFollowings(ctx, "a")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	fans, err := repo.ListFollowers(ctx, "b", 0, 10)
	require.NoError(t, err)
	assert.Len(t, fans, 2)

	list, err := repo.ListFollowings(ctx, "a", 0, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "b", list[0].FolloweeID)

	following, err = repo.Toggle(ctx, "a", "b")
	require.NoError(t, err)
	assert.False(t, following)

	ok, err := repo.Exists(ctx, "a", "b")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.Delete(ctx, "c", "b"))
	n, err = repo.CountFollowers(ctx, "b")
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)
}

func TestUserRepository(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.MustUser(t, db, "a")
	testutil.MustUser(t, db, "b")
	repo := NewUserRepository(db)
	ctx := context.Background()

	u, err := repo.GetByEmail(ctx, "b@example.com")
	require.NoError(t, err)
	assert.Equal(t, "b", u.ID)

	_, err = repo.GetByID(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)

	users, err := repo.ListByIDs(ctx, []string{"b", "missing", "a"})
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "b", users[0].ID)
	assert.Equal(t, "a", users[1].ID)

	dup := *u
	dup.ID = "c"
	assert.ErrorIs(t, repo.Create(ctx, &dup), ErrDuplicate)
}
