package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/playzo/playzo-backend/internal/domain/offer"
	"github.com/playzo/playzo-backend/internal/domain/shared"
	"github.com/playzo/playzo-backend/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// MANAGE OFFER COMMANDS
// Moderator-only writes on offers: create, update, publish and unpublish,
// toggle the featured and exclusive flags, delete. Every command names the
// acting user so permissions are enforced in one place.
// ══════════════════════════════════════════════════════════════════════════════

// CreateOfferCommand contains the data to create an offer.
type CreateOfferCommand struct {
	// ActorID is the user performing the action.
	ActorID string

	Title       string
	Description string
	Color       string
	ImagePath   string
	ImageURL    string
	OfferType   string
	StartDate   time.Time
	EndDate     time.Time
	IsFeatured  bool
	IsExclusive bool

	// Publish immediately activates the offer instead of leaving it in draft.
	Publish bool
}

// UpdateOfferCommand contains the data to update an offer.
type UpdateOfferCommand struct {
	// ActorID is the user performing the action.
	ActorID string

	// OfferID is the offer to update.
	OfferID string

	Title       string
	Description string
	Color       string
	ImagePath   string
	ImageURL    string
	OfferType   string
	StartDate   time.Time
	EndDate     time.Time
}

// OfferActionCommand addresses a single offer for a status or flag change.
type OfferActionCommand struct {
	// ActorID is the user performing the action.
	ActorID string

	// OfferID is the offer to act on.
	OfferID string
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// ManageOfferHandler handles all moderator writes on offers.
type ManageOfferHandler struct {
	offerRepo offer.Repository
	userRepo  user.Repository
	eventBus  shared.EventBus
}

// NewManageOfferHandler creates a new ManageOfferHandler.
func NewManageOfferHandler(
	offerRepo offer.Repository,
	userRepo user.Repository,
	eventBus shared.EventBus,
) *ManageOfferHandler {
	return &ManageOfferHandler{
		offerRepo: offerRepo,
		userRepo:  userRepo,
		eventBus:  eventBus,
	}
}

// authorize loads the actor and checks the moderator permission.
func (h *ManageOfferHandler) authorize(ctx context.Context, actorID string) error {
	if actorID == "" {
		return errors.New("manage_offer: actor_id is required")
	}

	actor, err := h.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return fmt.Errorf("manage_offer: failed to load actor: %w", err)
	}
	if !actor.CanManageOffers() {
		return shared.ErrAdminRequired
	}
	return nil
}

// CreateOffer creates a new offer, optionally publishing it right away.
func (h *ManageOfferHandler) CreateOffer(ctx context.Context, cmd CreateOfferCommand) (*offer.Offer, error) {
	if err := h.authorize(ctx, cmd.ActorID); err != nil {
		return nil, err
	}

	o, err := offer.NewOffer(offer.NewOfferParams{
		ID:          uuid.NewString(),
		Title:       cmd.Title,
		Description: cmd.Description,
		Color:       cmd.Color,
		ImagePath:   cmd.ImagePath,
		ImageURL:    cmd.ImageURL,
		OfferType:   offer.Type(cmd.OfferType),
		StartDate:   cmd.StartDate,
		EndDate:     cmd.EndDate,
		IsFeatured:  cmd.IsFeatured,
		IsExclusive: cmd.IsExclusive,
		CreatedBy:   cmd.ActorID,
	})
	if err != nil {
		return nil, shared.WrapError("offer", "Create", shared.ErrInvalidInput, "invalid offer", err)
	}

	if cmd.Publish {
		if err := o.Activate(); err != nil {
			return nil, shared.WrapError("offer", "Create", shared.ErrInvalidInput, "cannot publish offer", err)
		}
	}

	if err := h.offerRepo.Create(ctx, o); err != nil {
		return nil, fmt.Errorf("manage_offer: failed to create offer: %w", err)
	}

	return o, nil
}

// UpdateOffer replaces the editable fields of an existing offer.
func (h *ManageOfferHandler) UpdateOffer(ctx context.Context, cmd UpdateOfferCommand) (*offer.Offer, error) {
	if err := h.authorize(ctx, cmd.ActorID); err != nil {
		return nil, err
	}

	o, err := h.load(ctx, cmd.OfferID)
	if err != nil {
		return nil, err
	}

	if cmd.Title != "" {
		o.Title = cmd.Title
	}
	if cmd.Description != "" {
		o.Description = cmd.Description
	}
	if cmd.Color != "" {
		o.Color = cmd.Color
	}
	if cmd.ImagePath != "" {
		o.ImagePath = cmd.ImagePath
	}
	if cmd.ImageURL != "" {
		o.ImageURL = cmd.ImageURL
	}
	if cmd.OfferType != "" {
		t := offer.Type(cmd.OfferType)
		if !t.IsValid() {
			return nil, shared.ErrInvalidOfferType
		}
		o.OfferType = t
	}
	if !cmd.StartDate.IsZero() || !cmd.EndDate.IsZero() {
		start, end := o.StartDate, o.EndDate
		if !cmd.StartDate.IsZero() {
			start = cmd.StartDate
		}
		if !cmd.EndDate.IsZero() {
			end = cmd.EndDate
		}
		if err := o.Reschedule(start, end); err != nil {
			return nil, shared.WrapError("offer", "Update", shared.ErrInvalidInput, "invalid offer window", err)
		}
	}
	o.UpdatedAt = time.Now().UTC()

	if err := h.offerRepo.Update(ctx, o); err != nil {
		return nil, fmt.Errorf("manage_offer: failed to update offer: %w", err)
	}

	return o, nil
}

// ActivateOffer publishes an offer.
func (h *ManageOfferHandler) ActivateOffer(ctx context.Context, cmd OfferActionCommand) (*offer.Offer, error) {
	return h.transition(ctx, cmd, func(o *offer.Offer) error { return o.Activate() })
}

// DeactivateOffer expires an active offer.
func (h *ManageOfferHandler) DeactivateOffer(ctx context.Context, cmd OfferActionCommand) (*offer.Offer, error) {
	return h.transition(ctx, cmd, func(o *offer.Offer) error { return o.Deactivate() })
}

// ToggleFeatured flips the featured flag.
func (h *ManageOfferHandler) ToggleFeatured(ctx context.Context, cmd OfferActionCommand) (*offer.Offer, error) {
	return h.transition(ctx, cmd, func(o *offer.Offer) error {
		o.ToggleFeatured()
		return nil
	})
}

// ToggleExclusive flips the exclusive flag.
func (h *ManageOfferHandler) ToggleExclusive(ctx context.Context, cmd OfferActionCommand) (*offer.Offer, error) {
	return h.transition(ctx, cmd, func(o *offer.Offer) error {
		o.ToggleExclusive()
		return nil
	})
}

// DeleteOffer removes an offer permanently.
func (h *ManageOfferHandler) DeleteOffer(ctx context.Context, cmd OfferActionCommand) error {
	if err := h.authorize(ctx, cmd.ActorID); err != nil {
		return err
	}

	if err := h.offerRepo.Delete(ctx, cmd.OfferID); err != nil {
		if errors.Is(err, offer.ErrOfferNotFound) {
			return shared.WrapError("offer", "Delete", shared.ErrNotFound, "offer not found", err)
		}
		return shared.WrapError("offer", "Delete", shared.ErrExternalService, "failed to delete offer", err)
	}
	return nil
}

// load fetches an offer, translating the repository's not-found sentinel into
// the shared domain error the interface layer maps to a 404.
func (h *ManageOfferHandler) load(ctx context.Context, offerID string) (*offer.Offer, error) {
	o, err := h.offerRepo.GetByID(ctx, offerID)
	if err != nil {
		if errors.Is(err, offer.ErrOfferNotFound) {
			return nil, shared.WrapError("offer", "Find", shared.ErrNotFound, "offer not found", err)
		}
		return nil, shared.WrapError("offer", "Find", shared.ErrExternalService, "failed to load offer", err)
	}
	return o, nil
}

// transition loads an offer, applies a mutation and persists the result,
// emitting a status change event when the status actually moved.
func (h *ManageOfferHandler) transition(
	ctx context.Context,
	cmd OfferActionCommand,
	mutate func(*offer.Offer) error,
) (*offer.Offer, error) {
	if err := h.authorize(ctx, cmd.ActorID); err != nil {
		return nil, err
	}

	o, err := h.load(ctx, cmd.OfferID)
	if err != nil {
		return nil, err
	}

	oldStatus := o.Status
	if err := mutate(o); err != nil {
		return nil, shared.WrapError("offer", "Transition", shared.ErrInvalidInput, "invalid status change", err)
	}

	if err := h.offerRepo.Update(ctx, o); err != nil {
		return nil, fmt.Errorf("manage_offer: failed to update offer: %w", err)
	}

	if h.eventBus != nil && o.Status != oldStatus {
		_ = h.eventBus.Publish(shared.NewOfferStatusChangedEvent(
			o.ID, string(oldStatus), string(o.Status), cmd.ActorID))
	}

	return o, nil
}
