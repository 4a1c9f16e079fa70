package offer

import (
	"context"
	"time"
)

// ListFilter narrows down offer listings.
type ListFilter struct {
	// Status - only offers in this status; empty means any.
	Status Status

	// OfferType - only offers of this type; empty means any.
	OfferType Type

	// FeaturedOnly - only featured offers.
	FeaturedOnly bool

	// ActiveAt - only offers whose validity window contains this instant
	// and whose status is ACTIVE; zero means no window check.
	ActiveAt time.Time

	// StartsAfter - only offers starting after this instant; zero means any.
	StartsAfter time.Time

	// EndedBefore - only offers ending before this instant; zero means any.
	EndedBefore time.Time

	// Limit - maximum number of offers to return; 0 means no limit.
	Limit int
}

// Repository defines the persistence operations for offers.
type Repository interface {
	// Create persists a new offer.
	Create(ctx context.Context, o *Offer) error

	// GetByID returns an offer by ID. Returns ErrOfferNotFound when absent.
	GetByID(ctx context.Context, id string) (*Offer, error)

	// Update persists changes to an existing offer.
	Update(ctx context.Context, o *Offer) error

	// Delete removes an offer.
	Delete(ctx context.Context, id string) error

	// List returns offers matching the filter, newest start date first.
	List(ctx context.Context, filter ListFilter) ([]*Offer, error)

	// ExpireEnded moves every non-expired offer past its end date to
	// EXPIRED and returns the number of offers touched.
	ExpireEnded(ctx context.Context, now time.Time) (int, error)
}
