package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/d60-Lab/chirper/internal/testutil"
	"github.com/d60-Lab/chirper/pkg/token"
)

func newAuthService(t *testing.T) AuthService {
	f := newFixture(t)
	svc := NewAuthService(f.users, token.NewManager("test-secret", "chirper", time.Hour)).(*authService)
	svc.cost = bcrypt.MinCost
	return svc
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, RegisterInput{Email: " Ada@Example.com ", Password: "correct horse", Name: "Ada"})
	require.NoError(t, err)
	require.NotEmpty(t, reg.Token)
	require.NotNil(t, reg.User.Name)
	assert.Equal(t, "Ada", *reg.User.Name)
	assert.Nil(t, reg.User.Image)

	uid, err := svc.Authenticate(ctx, reg.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, uid)

	login, err := svc.Login(ctx, "ada@example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, login.User.ID)

	_, err = svc.Login(ctx, "ada@example.com", "wrong password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", "correct horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Register(ctx, RegisterInput{Email: "ada@example.com", Password: "another one"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthService_Validation(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Email: "not-an-email", Password: "long enough"})
	assert.True(t, IsValidationError(err))

	_, err = svc.Register(ctx, RegisterInput{Email: "a@b.co", Password: "short"})
	assert.True(t, IsValidationError(err))

	_, err = svc.Authenticate(ctx, "garbage")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestAuthService_AuthenticateRequiresExistingUser(t *testing.T) {
	f := newFixture(t)
	testutil.MustUser(t, f.db, "alice")
	tokens := token.NewManager("test-secret", "chirper", time.Hour)
	svc := NewAuthService(f.users, tokens)
	ctx := context.Background()

	tok, _, err := tokens.Issue("alice")
	require.NoError(t, err)
	uid, err := svc.Authenticate(ctx, tok)
	require.NoError(t, err)
	assert.Equal(t, "alice", uid)

	// 签名有效但用户已不存在
	tok, _, err = tokens.Issue("ghost")
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, tok)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}
