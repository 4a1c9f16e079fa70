package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playzo/playzo-backend/internal/domain/shared"
)

func validRegisterCommand() RegisterPlayerCommand {
	return RegisterPlayerCommand{
		Username:    "amira_k",
		Password:    "s3cret-pass",
		DisplayName: "Amira",
		Gender:      "F",
		Email:       "amira@playzo.example",
		Phone:       "+201000000001",
	}
}

func TestRegisterPlayer(t *testing.T) {
	ctx := context.Background()

	t.Run("creates account and profile", func(t *testing.T) {
		userRepo := newFakeUserRepo()
		playerRepo := newFakePlayerRepo()
		bus := &fakeEventBus{}
		handler := NewRegisterPlayerHandler(userRepo, playerRepo, bus)

		result, err := handler.Handle(ctx, validRegisterCommand())
		require.NoError(t, err)
		require.NotEmpty(t, result.UserID)
		require.NotEmpty(t, result.PlayerID)

		account, err := userRepo.GetByID(ctx, result.UserID)
		require.NoError(t, err)
		assert.NoError(t, account.CheckPassword("s3cret-pass"))

		profile, err := playerRepo.GetByUserID(ctx, result.UserID)
		require.NoError(t, err)
		assert.Equal(t, "Amira", profile.DisplayName)
		assert.Equal(t, 0, profile.GamesPlayed)

		events := bus.published()
		require.Len(t, events, 1)
		assert.Equal(t, shared.EventPlayerRegistered, events[0].EventType())
	})

	t.Run("duplicate username", func(t *testing.T) {
		userRepo := newFakeUserRepo()
		playerRepo := newFakePlayerRepo()
		handler := NewRegisterPlayerHandler(userRepo, playerRepo, &fakeEventBus{})

		_, err := handler.Handle(ctx, validRegisterCommand())
		require.NoError(t, err)

		_, err = handler.Handle(ctx, validRegisterCommand())
		assert.True(t, shared.IsAlreadyExists(err))
	})

	t.Run("invalid profile leaves no account behind", func(t *testing.T) {
		userRepo := newFakeUserRepo()
		playerRepo := newFakePlayerRepo()
		handler := NewRegisterPlayerHandler(userRepo, playerRepo, &fakeEventBus{})

		cmd := validRegisterCommand()
		cmd.Gender = "X"

		_, err := handler.Handle(ctx, cmd)
		require.Error(t, err)

		exists, err := userRepo.ExistsByUsername(ctx, "amira_k")
		require.NoError(t, err)
		assert.False(t, exists)
	})
}
