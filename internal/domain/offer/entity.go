// Package offer contains the promotional offer domain model.
// Offers are time-windowed promotions (discounts, events, trainings) that
// moderators manage and players browse.
package offer

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENUMS
// ══════════════════════════════════════════════════════════════════════════════

// Status describes the lifecycle state of an offer.
type Status string

const (
	// StatusDraft - created but not yet published.
	StatusDraft Status = "DRAFT"
	// StatusUpcoming - published, starts in the future.
	StatusUpcoming Status = "UPCOMING"
	// StatusActive - published and currently live.
	StatusActive Status = "ACTIVE"
	// StatusExpired - past its end date or manually deactivated.
	StatusExpired Status = "EXPIRED"
)

// IsValid checks that the status is one of the known values.
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusUpcoming, StatusActive, StatusExpired:
		return true
	default:
		return false
	}
}

// Type categorizes an offer.
type Type string

const (
	// TypeDiscount - price reduction on a service.
	TypeDiscount Type = "DISCOUNT"
	// TypeEvent - a one-off event.
	TypeEvent Type = "EVENT"
	// TypeTraining - a training program.
	TypeTraining Type = "TRAINING"
	// TypeMembership - a membership deal.
	TypeMembership Type = "MEMBERSHIP"
	// TypeOther - anything else.
	TypeOther Type = "OTHER"
)

// IsValid checks that the type is one of the known values.
func (t Type) IsValid() bool {
	switch t {
	case TypeDiscount, TypeEvent, TypeTraining, TypeMembership, TypeOther:
		return true
	default:
		return false
	}
}

// DefaultColor is the hex color used when none is supplied.
const DefaultColor = "#1565C0"

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: OFFER
// ══════════════════════════════════════════════════════════════════════════════

// Offer is a time-windowed promotion.
type Offer struct {
	// ID - internal unique identifier (UUID in string form).
	ID string

	// Title - short headline.
	Title string

	// Description - long-form details, may be empty.
	Description string

	// Color - hex color code for card rendering, e.g. "#1565C0".
	Color string

	// ImagePath - storage path of an uploaded image, may be empty.
	ImagePath string

	// ImageURL - external image URL; overrides ImagePath when set.
	ImageURL string

	// OfferType - the category of the offer.
	OfferType Type

	// StartDate - beginning of the validity window.
	StartDate time.Time

	// EndDate - end of the validity window, strictly after StartDate.
	EndDate time.Time

	// Status - lifecycle state.
	Status Status

	// IsFeatured - highlighted on the home screen.
	IsFeatured bool

	// IsExclusive - restricted to members.
	IsExclusive bool

	// CreatedBy - user ID of the moderator who created the offer.
	CreatedBy string

	// CreatedAt - when the offer was created.
	CreatedAt time.Time

	// UpdatedAt - when the offer was last modified.
	UpdatedAt time.Time
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrInvalidTitle - title is empty or too long.
	ErrInvalidTitle = errors.New("invalid title: must be 1-200 chars")

	// ErrInvalidType - offer type is not recognized.
	ErrInvalidType = errors.New("invalid offer type")

	// ErrInvalidColor - color is not a hex code like #1565C0.
	ErrInvalidColor = errors.New("invalid color: must be a hex code like #1565C0")

	// ErrDateOrder - end date is not after the start date.
	ErrDateOrder = errors.New("end date must be after start date")

	// ErrAlreadyActive - activation of an already active offer.
	ErrAlreadyActive = errors.New("offer is already active")

	// ErrNotActive - deactivation of an offer that is not active.
	ErrNotActive = errors.New("offer is not active")

	// ErrOfferNotFound - offer not found.
	ErrOfferNotFound = errors.New("offer not found")
)

// ══════════════════════════════════════════════════════════════════════════════
// FACTORY & VALIDATION
// ══════════════════════════════════════════════════════════════════════════════

// NewOfferParams contains the parameters for creating a new offer.
type NewOfferParams struct {
	ID          string
	Title       string
	Description string
	Color       string
	ImagePath   string
	ImageURL    string
	OfferType   Type
	StartDate   time.Time
	EndDate     time.Time
	IsFeatured  bool
	IsExclusive bool
	CreatedBy   string
}

// NewOffer creates a new offer in DRAFT status with validation.
func NewOffer(params NewOfferParams) (*Offer, error) {
	if params.ID == "" {
		return nil, errors.New("offer id is required")
	}

	title := strings.TrimSpace(params.Title)
	if len(title) == 0 || len(title) > 200 {
		return nil, ErrInvalidTitle
	}

	offerType := params.OfferType
	if offerType == "" {
		offerType = TypeOther
	}
	if !offerType.IsValid() {
		return nil, ErrInvalidType
	}

	color := params.Color
	if color == "" {
		color = DefaultColor
	}
	if !isHexColor(color) {
		return nil, ErrInvalidColor
	}

	if !params.EndDate.After(params.StartDate) {
		return nil, ErrDateOrder
	}

	now := time.Now().UTC()

	return &Offer{
		ID:          params.ID,
		Title:       title,
		Description: strings.TrimSpace(params.Description),
		Color:       color,
		ImagePath:   params.ImagePath,
		ImageURL:    params.ImageURL,
		OfferType:   offerType,
		StartDate:   params.StartDate,
		EndDate:     params.EndDate,
		Status:      StatusDraft,
		IsFeatured:  params.IsFeatured,
		IsExclusive: params.IsExclusive,
		CreatedBy:   params.CreatedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// isHexColor checks a "#RRGGBB" hex color code.
func isHexColor(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	for _, c := range s[1:] {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN METHODS
// ══════════════════════════════════════════════════════════════════════════════

// IsActiveAt reports whether the offer is live at the given instant:
// status ACTIVE and the instant falls inside [StartDate, EndDate].
func (o *Offer) IsActiveAt(now time.Time) bool {
	return o.Status == StatusActive &&
		!now.Before(o.StartDate) &&
		!now.After(o.EndDate)
}

// IsUpcomingAt reports whether the offer is published but not yet started.
func (o *Offer) IsUpcomingAt(now time.Time) bool {
	return o.Status == StatusUpcoming && o.StartDate.After(now)
}

// HasEnded reports whether the validity window is over.
func (o *Offer) HasEnded(now time.Time) bool {
	return o.EndDate.Before(now)
}

// DaysRemaining returns the whole days left until the end date, never negative.
func (o *Offer) DaysRemaining(now time.Time) int {
	remaining := o.EndDate.Sub(now)
	if remaining < 0 {
		return 0
	}
	return int(remaining.Hours() / 24)
}

// DisplayImage returns the external image URL when set, otherwise the
// uploaded image path, otherwise empty.
func (o *Offer) DisplayImage() string {
	if o.ImageURL != "" {
		return o.ImageURL
	}
	return o.ImagePath
}

// Activate transitions the offer to ACTIVE.
func (o *Offer) Activate() error {
	if o.Status == StatusActive {
		return ErrAlreadyActive
	}

	o.Status = StatusActive
	o.UpdatedAt = time.Now().UTC()
	return nil
}

// Deactivate transitions an active offer to EXPIRED.
func (o *Offer) Deactivate() error {
	if o.Status != StatusActive {
		return ErrNotActive
	}

	o.Status = StatusExpired
	o.UpdatedAt = time.Now().UTC()
	return nil
}

// Expire marks the offer EXPIRED regardless of its current status.
// Used by the background job that sweeps offers past their end date.
func (o *Offer) Expire() {
	o.Status = StatusExpired
	o.UpdatedAt = time.Now().UTC()
}

// ToggleFeatured flips the featured flag and returns the new value.
func (o *Offer) ToggleFeatured() bool {
	o.IsFeatured = !o.IsFeatured
	o.UpdatedAt = time.Now().UTC()
	return o.IsFeatured
}

// ToggleExclusive flips the exclusive flag and returns the new value.
func (o *Offer) ToggleExclusive() bool {
	o.IsExclusive = !o.IsExclusive
	o.UpdatedAt = time.Now().UTC()
	return o.IsExclusive
}

// Reschedule replaces the validity window.
func (o *Offer) Reschedule(start, end time.Time) error {
	if !end.After(start) {
		return ErrDateOrder
	}

	o.StartDate = start
	o.EndDate = end
	o.UpdatedAt = time.Now().UTC()
	return nil
}

// String returns a string representation for logging.
func (o *Offer) String() string {
	return fmt.Sprintf("Offer{ID: %s, Title: %s, Type: %s, Status: %s}",
		o.ID, o.Title, o.OfferType, o.Status)
}

// Clone creates a copy of the offer.
func (o *Offer) Clone() *Offer {
	if o == nil {
		return nil
	}
	clone := *o
	return &clone
}
