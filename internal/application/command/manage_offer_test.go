package command

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playzo/playzo-backend/internal/domain/offer"
	"github.com/playzo/playzo-backend/internal/domain/shared"
	"github.com/playzo/playzo-backend/internal/domain/user"
)

func seedModerator(t *testing.T, repo *fakeUserRepo) *user.User {
	t.Helper()

	u, err := user.NewUser("mod-1", "moderator", "Mod", "s3cret-pass")
	require.NoError(t, err)
	u.IsModerator = true
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func seedRegularUser(t *testing.T, repo *fakeUserRepo) *user.User {
	t.Helper()

	u, err := user.NewUser("usr-1", "regular", "Reg", "s3cret-pass")
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func validCreateOfferCommand(actorID string) CreateOfferCommand {
	return CreateOfferCommand{
		ActorID:   actorID,
		Title:     "Summer Discount",
		OfferType: "DISCOUNT",
		StartDate: time.Now().UTC(),
		EndDate:   time.Now().UTC().AddDate(0, 1, 0),
	}
}

func TestManageOffer(t *testing.T) {
	ctx := context.Background()

	t.Run("moderator creates draft", func(t *testing.T) {
		userRepo := newFakeUserRepo()
		offerRepo := newFakeOfferRepo()
		mod := seedModerator(t, userRepo)
		handler := NewManageOfferHandler(offerRepo, userRepo, &fakeEventBus{})

		o, err := handler.CreateOffer(ctx, validCreateOfferCommand(mod.ID))
		require.NoError(t, err)
		assert.Equal(t, offer.StatusDraft, o.Status)
		assert.Equal(t, mod.ID, o.CreatedBy)
	})

	t.Run("publish on create", func(t *testing.T) {
		userRepo := newFakeUserRepo()
		offerRepo := newFakeOfferRepo()
		mod := seedModerator(t, userRepo)
		handler := NewManageOfferHandler(offerRepo, userRepo, &fakeEventBus{})

		cmd := validCreateOfferCommand(mod.ID)
		cmd.Publish = true

		o, err := handler.CreateOffer(ctx, cmd)
		require.NoError(t, err)
		assert.Equal(t, offer.StatusActive, o.Status)
	})

	t.Run("regular user forbidden", func(t *testing.T) {
		userRepo := newFakeUserRepo()
		offerRepo := newFakeOfferRepo()
		usr := seedRegularUser(t, userRepo)
		handler := NewManageOfferHandler(offerRepo, userRepo, &fakeEventBus{})

		_, err := handler.CreateOffer(ctx, validCreateOfferCommand(usr.ID))
		assert.True(t, shared.IsForbidden(err))
	})

	t.Run("activate deactivate with status event", func(t *testing.T) {
		userRepo := newFakeUserRepo()
		offerRepo := newFakeOfferRepo()
		bus := &fakeEventBus{}
		mod := seedModerator(t, userRepo)
		handler := NewManageOfferHandler(offerRepo, userRepo, bus)

		o, err := handler.CreateOffer(ctx, validCreateOfferCommand(mod.ID))
		require.NoError(t, err)

		activated, err := handler.ActivateOffer(ctx, OfferActionCommand{ActorID: mod.ID, OfferID: o.ID})
		require.NoError(t, err)
		assert.Equal(t, offer.StatusActive, activated.Status)

		deactivated, err := handler.DeactivateOffer(ctx, OfferActionCommand{ActorID: mod.ID, OfferID: o.ID})
		require.NoError(t, err)
		assert.Equal(t, offer.StatusExpired, deactivated.Status)

		events := bus.published()
		require.Len(t, events, 2)
		assert.Equal(t, shared.EventOfferStatusChanged, events[0].EventType())
	})

	t.Run("double activate rejected", func(t *testing.T) {
		userRepo := newFakeUserRepo()
		offerRepo := newFakeOfferRepo()
		mod := seedModerator(t, userRepo)
		handler := NewManageOfferHandler(offerRepo, userRepo, &fakeEventBus{})

		cmd := validCreateOfferCommand(mod.ID)
		cmd.Publish = true
		o, err := handler.CreateOffer(ctx, cmd)
		require.NoError(t, err)

		_, err = handler.ActivateOffer(ctx, OfferActionCommand{ActorID: mod.ID, OfferID: o.ID})
		assert.ErrorIs(t, err, offer.ErrAlreadyActive)
	})

	t.Run("toggles persist", func(t *testing.T) {
		userRepo := newFakeUserRepo()
		offerRepo := newFakeOfferRepo()
		mod := seedModerator(t, userRepo)
		handler := NewManageOfferHandler(offerRepo, userRepo, &fakeEventBus{})

		o, err := handler.CreateOffer(ctx, validCreateOfferCommand(mod.ID))
		require.NoError(t, err)

		toggled, err := handler.ToggleFeatured(ctx, OfferActionCommand{ActorID: mod.ID, OfferID: o.ID})
		require.NoError(t, err)
		assert.True(t, toggled.IsFeatured)

		stored, err := offerRepo.GetByID(ctx, o.ID)
		require.NoError(t, err)
		assert.True(t, stored.IsFeatured)
	})

	t.Run("reschedule rejects inverted window", func(t *testing.T) {
		userRepo := newFakeUserRepo()
		offerRepo := newFakeOfferRepo()
		mod := seedModerator(t, userRepo)
		handler := NewManageOfferHandler(offerRepo, userRepo, &fakeEventBus{})

		o, err := handler.CreateOffer(ctx, validCreateOfferCommand(mod.ID))
		require.NoError(t, err)

		_, err = handler.UpdateOffer(ctx, UpdateOfferCommand{
			ActorID: mod.ID,
			OfferID: o.ID,
			EndDate: o.StartDate.Add(-time.Hour),
		})
		assert.ErrorIs(t, err, offer.ErrDateOrder)
	})

	t.Run("delete", func(t *testing.T) {
		userRepo := newFakeUserRepo()
		offerRepo := newFakeOfferRepo()
		mod := seedModerator(t, userRepo)
		handler := NewManageOfferHandler(offerRepo, userRepo, &fakeEventBus{})

		o, err := handler.CreateOffer(ctx, validCreateOfferCommand(mod.ID))
		require.NoError(t, err)

		require.NoError(t, handler.DeleteOffer(ctx, OfferActionCommand{ActorID: mod.ID, OfferID: o.ID}))

		_, err = offerRepo.GetByID(ctx, o.ID)
		assert.ErrorIs(t, err, offer.ErrOfferNotFound)
	})
}
