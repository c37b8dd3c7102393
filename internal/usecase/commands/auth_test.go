//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"worklab/internal/infra"
	"worklab/internal/pkg/jwt"
	"worklab/internal/pkg/password"
	"worklab/internal/usecase/commands"
	"worklab/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserReadStore struct {
	byEmail map[string]*queries.AuthorizedUserView
	byID    map[uuid.UUID]*queries.AuthorizedUserView
	hashes  map[string]string
}

func (f *fakeUserReadStore) FindByID(_ context.Context, id uuid.UUID) (*queries.AuthorizedUserView, error) {
	if view, ok := f.byID[id]; ok {
		return view, nil
	}
	return nil, infra.WrapRepoErr("no rows", nil, infra.KindNotFound)
}

func (f *fakeUserReadStore) FindByEmail(_ context.Context, email string) (*queries.AuthorizedUserView, string, error) {
	if view, ok := f.byEmail[email]; ok {
		return view, f.hashes[email], nil
	}
	return nil, "", infra.WrapRepoErr("no rows", nil, infra.KindNotFound)
}

func (f *fakeUserReadStore) FindAll(_ context.Context) ([]*queries.UserListItem, error) {
	return nil, nil
}

func newAuthFixture(t *testing.T) (commands.AuthCommands, *fakeUserReadStore, *jwt.Service, uuid.UUID) {
	t.Helper()

	hash, err := password.HashPassword("correct horse battery")
	require.NoError(t, err)

	userID := uuid.New()
	view := &queries.AuthorizedUserView{
		ID:       userID,
		Name:     "Alice Example",
		Email:    "alice@example.com",
		Role:     "user",
		IsActive: true,
	}

	store := &fakeUserReadStore{
		byEmail: map[string]*queries.AuthorizedUserView{view.Email: view},
		byID:    map[uuid.UUID]*queries.AuthorizedUserView{userID: view},
		hashes:  map[string]string{view.Email: hash},
	}

	svc := jwt.NewService("test-secret", 15*time.Minute, 7*24*time.Hour)
	return commands.NewAuthCommands(store, svc), store, svc, userID
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials yield a token pair", func(t *testing.T) {
		uc, _, svc, userID := newAuthFixture(t)

		result, err := uc.Login(ctx, "alice@example.com", "correct horse battery")
		require.NoError(t, err)
		assert.Equal(t, userID, result.UserID)
		assert.Equal(t, "user", result.Role)

		claims, err := svc.ValidateToken(result.TokenPair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, userID, claims.UserID)
		assert.Equal(t, jwt.TokenTypeAccess, claims.TokenType)
	})

	t.Run("wrong password", func(t *testing.T) {
		uc, _, _, _ := newAuthFixture(t)

		_, err := uc.Login(ctx, "alice@example.com", "wrong")
		assert.ErrorIs(t, err, commands.ErrInvalidCredentials)
	})

	t.Run("unknown email gets the same answer as a wrong password", func(t *testing.T) {
		uc, _, _, _ := newAuthFixture(t)

		_, err := uc.Login(ctx, "nobody@example.com", "whatever")
		assert.ErrorIs(t, err, commands.ErrInvalidCredentials)
	})

	t.Run("inactive account is refused", func(t *testing.T) {
		uc, store, _, _ := newAuthFixture(t)
		store.byEmail["alice@example.com"].IsActive = false

		_, err := uc.Login(ctx, "alice@example.com", "correct horse battery")
		assert.ErrorIs(t, err, commands.ErrUserInactive)
	})
}

func TestRefreshToken(t *testing.T) {
	ctx := context.Background()

	t.Run("refresh token yields a fresh pair", func(t *testing.T) {
		uc, _, svc, userID := newAuthFixture(t)
		result, err := uc.Login(ctx, "alice@example.com", "correct horse battery")
		require.NoError(t, err)

		pair, err := uc.RefreshToken(ctx, result.TokenPair.RefreshToken)
		require.NoError(t, err)

		claims, err := svc.ValidateToken(pair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, userID, claims.UserID)
	})

	t.Run("an access token cannot be used as a refresh token", func(t *testing.T) {
		uc, _, _, _ := newAuthFixture(t)
		result, err := uc.Login(ctx, "alice@example.com", "correct horse battery")
		require.NoError(t, err)

		_, err = uc.RefreshToken(ctx, result.TokenPair.AccessToken)
		assert.ErrorIs(t, err, commands.ErrTokenValidation)
	})

	t.Run("garbage token", func(t *testing.T) {
		uc, _, _, _ := newAuthFixture(t)

		_, err := uc.RefreshToken(ctx, "not.a.token")
		assert.ErrorIs(t, err, commands.ErrTokenValidation)
	})

	t.Run("deactivated user cannot refresh", func(t *testing.T) {
		uc, store, _, userID := newAuthFixture(t)
		result, err := uc.Login(ctx, "alice@example.com", "correct horse battery")
		require.NoError(t, err)

		store.byID[userID].IsActive = false

		_, err = uc.RefreshToken(ctx, result.TokenPair.RefreshToken)
		assert.ErrorIs(t, err, commands.ErrUserInactive)
	})
}
