package offer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOffer(t *testing.T) *Offer {
	t.Helper()

	o, err := NewOffer(NewOfferParams{
		ID:        "offer-1",
		Title:     "Summer Discount",
		OfferType: TypeDiscount,
		StartDate: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC),
		CreatedBy: "user-1",
	})
	require.NoError(t, err)
	return o
}

func TestNewOffer(t *testing.T) {
	t.Run("valid with defaults", func(t *testing.T) {
		o := newTestOffer(t)
		assert.Equal(t, StatusDraft, o.Status)
		assert.Equal(t, DefaultColor, o.Color)
		assert.False(t, o.IsFeatured)
	})

	t.Run("empty title", func(t *testing.T) {
		_, err := NewOffer(NewOfferParams{
			ID:        "offer-1",
			Title:     "   ",
			StartDate: time.Now(),
			EndDate:   time.Now().Add(time.Hour),
		})
		assert.ErrorIs(t, err, ErrInvalidTitle)
	})

	t.Run("empty type defaults to other", func(t *testing.T) {
		o, err := NewOffer(NewOfferParams{
			ID:        "offer-1",
			Title:     "Something",
			StartDate: time.Now(),
			EndDate:   time.Now().Add(time.Hour),
		})
		require.NoError(t, err)
		assert.Equal(t, TypeOther, o.OfferType)
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := NewOffer(NewOfferParams{
			ID:        "offer-1",
			Title:     "Something",
			OfferType: "LOTTERY",
			StartDate: time.Now(),
			EndDate:   time.Now().Add(time.Hour),
		})
		assert.ErrorIs(t, err, ErrInvalidType)
	})

	t.Run("bad color", func(t *testing.T) {
		_, err := NewOffer(NewOfferParams{
			ID:        "offer-1",
			Title:     "Something",
			Color:     "blue",
			StartDate: time.Now(),
			EndDate:   time.Now().Add(time.Hour),
		})
		assert.ErrorIs(t, err, ErrInvalidColor)
	})

	t.Run("end before start", func(t *testing.T) {
		start := time.Now()
		_, err := NewOffer(NewOfferParams{
			ID:        "offer-1",
			Title:     "Something",
			StartDate: start,
			EndDate:   start.Add(-time.Hour),
		})
		assert.ErrorIs(t, err, ErrDateOrder)
	})

	t.Run("end equal to start", func(t *testing.T) {
		start := time.Now()
		_, err := NewOffer(NewOfferParams{
			ID:        "offer-1",
			Title:     "Something",
			StartDate: start,
			EndDate:   start,
		})
		assert.ErrorIs(t, err, ErrDateOrder)
	})
}

func TestIsActiveAt(t *testing.T) {
	o := newTestOffer(t)
	inside := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	before := time.Date(2026, 5, 15, 12, 0, 0, 0, time.UTC)
	after := time.Date(2026, 7, 15, 12, 0, 0, 0, time.UTC)

	// Draft offers are never active even inside the window.
	assert.False(t, o.IsActiveAt(inside))

	require.NoError(t, o.Activate())
	assert.True(t, o.IsActiveAt(inside))
	assert.True(t, o.IsActiveAt(o.StartDate))
	assert.True(t, o.IsActiveAt(o.EndDate))
	assert.False(t, o.IsActiveAt(before))
	assert.False(t, o.IsActiveAt(after))
}

func TestActivateDeactivate(t *testing.T) {
	o := newTestOffer(t)

	require.NoError(t, o.Activate())
	assert.ErrorIs(t, o.Activate(), ErrAlreadyActive)

	require.NoError(t, o.Deactivate())
	assert.Equal(t, StatusExpired, o.Status)
	assert.ErrorIs(t, o.Deactivate(), ErrNotActive)
}

func TestToggles(t *testing.T) {
	o := newTestOffer(t)

	assert.True(t, o.ToggleFeatured())
	assert.False(t, o.ToggleFeatured())

	assert.True(t, o.ToggleExclusive())
	assert.True(t, o.IsExclusive)
}

func TestDaysRemaining(t *testing.T) {
	o := newTestOffer(t)

	assert.Equal(t, 15, o.DaysRemaining(time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 0, o.DaysRemaining(time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)))
}

func TestDisplayImage(t *testing.T) {
	o := newTestOffer(t)
	assert.Empty(t, o.DisplayImage())

	o.ImagePath = "offers/summer.png"
	assert.Equal(t, "offers/summer.png", o.DisplayImage())

	o.ImageURL = "https://cdn.example.com/summer.png"
	assert.Equal(t, "https://cdn.example.com/summer.png", o.DisplayImage())
}

func TestReschedule(t *testing.T) {
	o := newTestOffer(t)
	start := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)

	assert.ErrorIs(t, o.Reschedule(start, start), ErrDateOrder)

	require.NoError(t, o.Reschedule(start, start.AddDate(0, 1, 0)))
	assert.Equal(t, start, o.StartDate)
}
