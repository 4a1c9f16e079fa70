package query

import (
	"context"
	"time"

	"github.com/playzo/playzo-backend/internal/domain/offer"
	"github.com/playzo/playzo-backend/internal/domain/shared"
	"github.com/playzo/playzo-backend/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// LIST OFFERS QUERIES
// Read-side views over offers: currently live, featured, upcoming, recently
// expired, and the combined home-screen feed. All views are computed against
// a single "now" so a request cannot straddle an expiry boundary.
// ══════════════════════════════════════════════════════════════════════════════

// OfferView selects which slice of offers to return.
type OfferView string

const (
	// OfferViewActive - live offers inside their validity window.
	OfferViewActive OfferView = "active"
	// OfferViewFeatured - live offers flagged as featured.
	OfferViewFeatured OfferView = "featured"
	// OfferViewUpcoming - published offers that have not started yet.
	OfferViewUpcoming OfferView = "upcoming"
	// OfferViewExpired - offers past their window, newest first.
	OfferViewExpired OfferView = "expired"
	// OfferViewAll - every offer regardless of status.
	OfferViewAll OfferView = "all"
)

// ListOffersQuery contains the offer listing parameters.
type ListOffersQuery struct {
	// View selects the slice; defaults to OfferViewActive.
	View OfferView

	// OfferType optionally filters by category.
	OfferType string

	// Limit caps the number of rows; 0 means the view's default.
	Limit int

	// Now is the reference instant (defaults to the current time).
	Now time.Time
}

// OfferDTO is an offer row as served to clients.
type OfferDTO struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	Color         string    `json:"color"`
	Image         string    `json:"image,omitempty"`
	OfferType     string    `json:"offer_type"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	Status        string    `json:"status"`
	IsFeatured    bool      `json:"is_featured"`
	IsExclusive   bool      `json:"is_exclusive"`
	DaysRemaining int       `json:"days_remaining"`
}

// ListOffersResult contains the offer listing response.
type ListOffersResult struct {
	// Offers - the matching rows.
	Offers []OfferDTO `json:"offers"`

	// View - the slice that was served.
	View OfferView `json:"view"`

	// GeneratedAt - when the result was produced.
	GeneratedAt time.Time `json:"generated_at"`
}

// HomeOffersResult is the combined home-screen feed.
type HomeOffersResult struct {
	// Featured - live featured offers for the carousel.
	Featured []OfferDTO `json:"featured"`

	// Active - all live offers.
	Active []OfferDTO `json:"active"`

	// Upcoming - published offers starting soon.
	Upcoming []OfferDTO `json:"upcoming"`

	// GeneratedAt - when the result was produced.
	GeneratedAt time.Time `json:"generated_at"`
}

// ListOffersHandler handles offer listing requests.
type ListOffersHandler struct {
	offerRepo offer.Repository
}

// NewListOffersHandler creates a new ListOffersHandler.
func NewListOffersHandler(offerRepo offer.Repository) *ListOffersHandler {
	return &ListOffersHandler{offerRepo: offerRepo}
}

// Handle executes the offer listing query.
func (h *ListOffersHandler) Handle(ctx context.Context, query ListOffersQuery) (*ListOffersResult, error) {
	now := query.Now
	if now.IsZero() {
		now = timeutil.Now()
	}

	view := query.View
	if view == "" {
		view = OfferViewActive
	}

	filter := offer.ListFilter{
		OfferType: offer.Type(query.OfferType),
		Limit:     query.Limit,
	}

	switch view {
	case OfferViewActive:
		filter.Status = offer.StatusActive
		filter.ActiveAt = now
	case OfferViewFeatured:
		filter.Status = offer.StatusActive
		filter.ActiveAt = now
		filter.FeaturedOnly = true
	case OfferViewUpcoming:
		filter.StartsAfter = now
	case OfferViewExpired:
		filter.EndedBefore = now
	case OfferViewAll:
		// No narrowing.
	default:
		return nil, shared.NewDomainError("offer", "List", shared.ErrInvalidInput, "unknown offer view")
	}

	offers, err := h.offerRepo.List(ctx, filter)
	if err != nil {
		return nil, shared.WrapError("offer", "List", shared.ErrExternalService, "failed to list offers", err)
	}

	return &ListOffersResult{
		Offers:      toOfferDTOs(offers, now),
		View:        view,
		GeneratedAt: now,
	}, nil
}

// HandleHome builds the combined home-screen feed in one call.
func (h *ListOffersHandler) HandleHome(ctx context.Context) (*HomeOffersResult, error) {
	now := timeutil.Now()

	active, err := h.offerRepo.List(ctx, offer.ListFilter{
		Status:   offer.StatusActive,
		ActiveAt: now,
	})
	if err != nil {
		return nil, shared.WrapError("offer", "ListHome", shared.ErrExternalService, "failed to list active offers", err)
	}

	upcoming, err := h.offerRepo.List(ctx, offer.ListFilter{
		StartsAfter: now,
		Limit:       5,
	})
	if err != nil {
		return nil, shared.WrapError("offer", "ListHome", shared.ErrExternalService, "failed to list upcoming offers", err)
	}

	featured := make([]*offer.Offer, 0, len(active))
	for _, o := range active {
		if o.IsFeatured {
			featured = append(featured, o)
		}
	}

	return &HomeOffersResult{
		Featured:    toOfferDTOs(featured, now),
		Active:      toOfferDTOs(active, now),
		Upcoming:    toOfferDTOs(upcoming, now),
		GeneratedAt: now,
	}, nil
}

func toOfferDTOs(offers []*offer.Offer, now time.Time) []OfferDTO {
	dtos := make([]OfferDTO, len(offers))
	for i, o := range offers {
		dtos[i] = OfferDTO{
			ID:            o.ID,
			Title:         o.Title,
			Description:   o.Description,
			Color:         o.Color,
			Image:         o.DisplayImage(),
			OfferType:     string(o.OfferType),
			StartDate:     o.StartDate,
			EndDate:       o.EndDate,
			Status:        string(o.Status),
			IsFeatured:    o.IsFeatured,
			IsExclusive:   o.IsExclusive,
			DaysRemaining: o.DaysRemaining(now),
		}
	}
	return dtos
}
