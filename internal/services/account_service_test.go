package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/01moynul/cartify-golang/internal/auth"
	"github.com/01moynul/cartify-golang/internal/models"
	"github.com/01moynul/cartify-golang/internal/store"
	"github.com/01moynul/cartify-golang/internal/store/memstore"
)

func newAccountService(t *testing.T) (*AccountService, *auth.TokenManager, *memstore.Store) {
	t.Helper()
	st := memstore.New()
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	return NewAccountService(st, auth.NewBcryptHasher(bcrypt.MinCost), tokens), tokens, st
}

func TestSignup(t *testing.T) {
	svc, tokens, st := newAccountService(t)
	ctx := context.Background()

	session, err := svc.Signup(ctx, "  Alice@Example.COM ", "Alice", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, "alice@example.com", session.User.Email)
	assert.Equal(t, "Alice", session.User.Name)

	userID, err := tokens.ValidateToken(session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, userID)

	stored, err := st.GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", stored.PasswordHash)
}

func TestSignupDuplicateEmailIgnoresCase(t *testing.T) {
	svc, _, _ := newAccountService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "bob@example.com", "Bob", "secret1")
	require.NoError(t, err)

	_, err = svc.Signup(ctx, "BOB@example.com", "Bobby", "secret2")
	require.ErrorIs(t, err, ErrConflict)
}

func TestSignupValidation(t *testing.T) {
	svc, _, _ := newAccountService(t)

	tests := []struct {
		name     string
		email    string
		userName string
		password string
	}{
		{name: "missing email", email: "", userName: "A", password: "secret1"},
		{name: "missing name", email: "a@b.c", userName: "  ", password: "secret1"},
		{name: "missing password", email: "a@b.c", userName: "A", password: ""},
		{name: "email without at", email: "abc", userName: "A", password: "secret1"},
		{name: "short password", email: "a@b.c", userName: "A", password: "12345"},
		{name: "password too long", email: "a@b.c", userName: "A", password: strings.Repeat("x", 73)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Signup(context.Background(), tt.email, tt.userName, tt.password)
			require.ErrorIs(t, err, ErrBadRequest)
		})
	}
}

func TestLogin(t *testing.T) {
	svc, _, _ := newAccountService(t)
	ctx := context.Background()

	created, err := svc.Signup(ctx, "carol@example.com", "Carol", "secret1")
	require.NoError(t, err)

	t.Run("correct credentials", func(t *testing.T) {
		session, err := svc.Login(ctx, "CAROL@example.com", "secret1")
		require.NoError(t, err)
		assert.Equal(t, created.User.ID, session.User.ID)
		assert.NotEmpty(t, session.Token)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "carol@example.com", "nope123")
		require.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, "dave@example.com", "secret1")
		require.ErrorIs(t, err, ErrUnauthorized)
		var svcErr *Error
		require.True(t, errors.As(err, &svcErr))
		assert.Equal(t, "Invalid credentials", svcErr.Message)
	})

	t.Run("missing fields", func(t *testing.T) {
		_, err := svc.Login(ctx, "", "secret1")
		require.ErrorIs(t, err, ErrBadRequest)
	})
}

func TestResolve(t *testing.T) {
	svc, _, st := newAccountService(t)
	ctx := context.Background()

	user := &models.User{ID: "5d0c2d4e-7b55-4b8e-9a53-0d7e0c3f9b11", Email: "e@x.io", Name: "Eve"}
	require.NoError(t, st.CreateUser(ctx, user))

	got, err := svc.Resolve(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Eve", got.Name)

	_, err = svc.Resolve(ctx, "not-a-uuid")
	require.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.Resolve(ctx, "0b3d8b0e-1111-4c2a-8f00-000000000000")
	require.ErrorIs(t, err, ErrUnauthorized)
}

type failingUsers struct{ store.UserStore }

func (failingUsers) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, errors.New("connection refused")
}

func TestLoginStoreFailureIsNotClassified(t *testing.T) {
	svc := NewAccountService(failingUsers{}, auth.NewBcryptHasher(bcrypt.MinCost), auth.NewTokenManager("s", time.Hour))

	_, err := svc.Login(context.Background(), "a@b.c", "secret1")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrUnauthorized))
	assert.False(t, errors.Is(err, ErrBadRequest))
}
