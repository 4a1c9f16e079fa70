package query

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playzo/playzo-backend/internal/domain/offer"
	"github.com/playzo/playzo-backend/internal/domain/player"
	"github.com/playzo/playzo-backend/internal/domain/shared"
)

// ─── fakes ───────────────────────────────────────────────────────────────────

type stubPlayerRepo struct {
	players []*player.Player
	listErr error
}

func (r *stubPlayerRepo) Create(context.Context, *player.Player) error { return nil }

func (r *stubPlayerRepo) GetByID(_ context.Context, id string) (*player.Player, error) {
	for _, p := range r.players {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, player.ErrPlayerNotFound
}

func (r *stubPlayerRepo) GetByUserID(_ context.Context, userID string) (*player.Player, error) {
	for _, p := range r.players {
		if p.UserID == userID {
			return p, nil
		}
	}
	return nil, player.ErrPlayerNotFound
}

func (r *stubPlayerRepo) GetByEmail(_ context.Context, email string) (*player.Player, error) {
	return nil, player.ErrPlayerNotFound
}

func (r *stubPlayerRepo) Update(context.Context, *player.Player) error { return nil }

func (r *stubPlayerRepo) Mutate(_ context.Context, id string, fn func(*player.Player) error) (*player.Player, error) {
	p, err := r.GetByID(context.Background(), id)
	if err != nil {
		return nil, err
	}
	if err := fn(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *stubPlayerRepo) ListAll(context.Context) ([]*player.Player, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	return r.players, nil
}

func (r *stubPlayerRepo) List(context.Context, player.ListOptions) ([]*player.Player, error) {
	return r.players, nil
}

func (r *stubPlayerRepo) Count(context.Context) (int, error) { return len(r.players), nil }

func (r *stubPlayerRepo) Delete(context.Context, string) error { return nil }

type stubRankingSource struct {
	ranked []player.RankedPlayer
	err    error
	calls  int
}

func (s *stubRankingSource) Top(_ context.Context, _ player.SortCriterion, limit int) ([]player.RankedPlayer, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if limit < len(s.ranked) {
		return s.ranked[:limit], nil
	}
	return s.ranked, nil
}

type stubOfferRepo struct {
	offers []*offer.Offer
}

func (r *stubOfferRepo) Create(context.Context, *offer.Offer) error { return nil }

func (r *stubOfferRepo) GetByID(_ context.Context, id string) (*offer.Offer, error) {
	for _, o := range r.offers {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, offer.ErrOfferNotFound
}

func (r *stubOfferRepo) Update(context.Context, *offer.Offer) error { return nil }

func (r *stubOfferRepo) Delete(context.Context, string) error { return nil }

func (r *stubOfferRepo) List(_ context.Context, filter offer.ListFilter) ([]*offer.Offer, error) {
	out := make([]*offer.Offer, 0, len(r.offers))
	for _, o := range r.offers {
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		if !filter.ActiveAt.IsZero() && !o.IsActiveAt(filter.ActiveAt) {
			continue
		}
		if filter.FeaturedOnly && !o.IsFeatured {
			continue
		}
		if !filter.StartsAfter.IsZero() && !o.StartDate.After(filter.StartsAfter) {
			continue
		}
		if !filter.EndedBefore.IsZero() && !o.EndDate.Before(filter.EndedBefore) {
			continue
		}
		out = append(out, o)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

func (r *stubOfferRepo) ExpireEnded(context.Context, time.Time) (int, error) { return 0, nil }

func testPlayer(t *testing.T, name string, total, high, played, won int) *player.Player {
	t.Helper()

	p, err := player.NewPlayer(player.NewPlayerParams{
		ID:          "player-" + name,
		UserID:      "user-" + name,
		DisplayName: name,
		Gender:      player.GenderFemale,
		Email:       name + "@playzo.example",
		Phone:       "+201000000001",
	})
	require.NoError(t, err)

	p.TotalScore = total
	p.HighScore = high
	p.GamesPlayed = played
	p.GamesWon = won
	if played > 0 {
		p.AverageScore = float64(total) / float64(played)
	}
	return p
}

// ─── leaderboard ─────────────────────────────────────────────────────────────

func TestGetLeaderboard(t *testing.T) {
	ctx := context.Background()

	repo := &stubPlayerRepo{players: []*player.Player{
		testPlayer(t, "amira", 900, 300, 9, 5),
		testPlayer(t, "basel", 1200, 250, 12, 7),
		testPlayer(t, "chadi", 120, 60, 3, 1),
	}}

	t.Run("computes from repository without cache", func(t *testing.T) {
		handler := NewGetLeaderboardHandler(repo, nil)

		result, err := handler.Handle(ctx, GetLeaderboardQuery{SortBy: "total_score", Limit: 2})
		require.NoError(t, err)

		require.Len(t, result.Entries, 2)
		assert.Equal(t, "basel", result.Entries[0].DisplayName)
		assert.Equal(t, 1, result.Entries[0].Rank)
		assert.Equal(t, "amira", result.Entries[1].DisplayName)
		assert.Equal(t, 3, result.TotalCount)
	})

	t.Run("unknown criterion falls back to total score", func(t *testing.T) {
		handler := NewGetLeaderboardHandler(repo, nil)

		result, err := handler.Handle(ctx, GetLeaderboardQuery{SortBy: "win_streak", Limit: 3})
		require.NoError(t, err)

		assert.Equal(t, "total_score", result.SortBy)
		assert.Equal(t, "basel", result.Entries[0].DisplayName)
	})

	t.Run("prefers ranking source when populated", func(t *testing.T) {
		source := &stubRankingSource{ranked: player.Rankings(repo.players, player.ByHighScore)}
		handler := NewGetLeaderboardHandler(repo, source)

		result, err := handler.Handle(ctx, GetLeaderboardQuery{SortBy: "high_score", Limit: 1})
		require.NoError(t, err)

		assert.Equal(t, 1, source.calls)
		require.Len(t, result.Entries, 1)
		assert.Equal(t, "amira", result.Entries[0].DisplayName)
	})

	t.Run("falls back when ranking source fails", func(t *testing.T) {
		source := &stubRankingSource{err: assert.AnError}
		handler := NewGetLeaderboardHandler(repo, source)

		result, err := handler.Handle(ctx, GetLeaderboardQuery{Limit: 10})
		require.NoError(t, err)
		assert.Len(t, result.Entries, 3)
	})

	t.Run("limit is clamped", func(t *testing.T) {
		handler := NewGetLeaderboardHandler(repo, nil)

		result, err := handler.Handle(ctx, GetLeaderboardQuery{Limit: -1})
		require.NoError(t, err)
		// Default applies; only 3 players exist.
		assert.Len(t, result.Entries, 3)
	})

	t.Run("store failure is not a missing resource", func(t *testing.T) {
		broken := &stubPlayerRepo{listErr: assert.AnError}
		handler := NewGetLeaderboardHandler(broken, nil)

		_, err := handler.Handle(ctx, GetLeaderboardQuery{Limit: 10})
		require.Error(t, err)
		assert.False(t, shared.IsNotFound(err))
		assert.ErrorIs(t, err, shared.ErrExternalService)
	})
}

func TestGetRankings(t *testing.T) {
	ctx := context.Background()

	repo := &stubPlayerRepo{players: []*player.Player{
		testPlayer(t, "zainab", 1200, 300, 12, 6),
		testPlayer(t, "yousef", 1200, 280, 11, 7),
		testPlayer(t, "karim", 300, 90, 6, 1),
	}}
	handler := NewGetRankingsHandler(repo)

	t.Run("tie broken by name, dense positions", func(t *testing.T) {
		result, err := handler.Handle(ctx, GetRankingsQuery{SortBy: "total_score"})
		require.NoError(t, err)

		require.Len(t, result.Entries, 3)
		assert.Equal(t, "yousef", result.Entries[0].DisplayName)
		assert.Equal(t, "zainab", result.Entries[1].DisplayName)
		assert.Equal(t, "karim", result.Entries[2].DisplayName)
		assert.Equal(t, []int{1, 2, 3}, []int{
			result.Entries[0].Rank, result.Entries[1].Rank, result.Entries[2].Rank,
		})
	})

	t.Run("single player row keeps global position", func(t *testing.T) {
		result, err := handler.Handle(ctx, GetRankingsQuery{PlayerID: "player-karim"})
		require.NoError(t, err)

		require.Len(t, result.Entries, 1)
		assert.Equal(t, 3, result.Entries[0].Rank)
	})

	t.Run("store failure is not a missing resource", func(t *testing.T) {
		broken := NewGetRankingsHandler(&stubPlayerRepo{listErr: assert.AnError})

		_, err := broken.Handle(ctx, GetRankingsQuery{})
		require.Error(t, err)
		assert.False(t, shared.IsNotFound(err))
		assert.ErrorIs(t, err, shared.ErrExternalService)
	})
}

func TestGetPlayerStats(t *testing.T) {
	ctx := context.Background()

	p := testPlayer(t, "amira", 200, 90, 4, 1)
	handler := NewGetPlayerStatsHandler(&stubPlayerRepo{players: []*player.Player{p}})

	t.Run("by player id", func(t *testing.T) {
		view, err := handler.Handle(ctx, GetPlayerStatsQuery{PlayerID: p.ID})
		require.NoError(t, err)

		assert.InDelta(t, 25.0, view.WinRate, 1e-9)
		assert.Equal(t, 3, view.GamesLost)
	})

	t.Run("by user id", func(t *testing.T) {
		view, err := handler.Handle(ctx, GetPlayerStatsQuery{UserID: p.UserID})
		require.NoError(t, err)
		assert.Equal(t, p.ID, view.PlayerID)
	})

	t.Run("missing identifiers", func(t *testing.T) {
		_, err := handler.Handle(ctx, GetPlayerStatsQuery{})
		assert.Error(t, err)
	})

	t.Run("unknown player maps to not found", func(t *testing.T) {
		_, err := handler.Handle(ctx, GetPlayerStatsQuery{PlayerID: "player-ghost"})
		require.Error(t, err)
		assert.True(t, shared.IsNotFound(err))
		assert.ErrorIs(t, err, player.ErrPlayerNotFound)
	})
}

// ─── offers ──────────────────────────────────────────────────────────────────

func activeOffer(t *testing.T, id, title string, featured bool, now time.Time) *offer.Offer {
	t.Helper()

	o, err := offer.NewOffer(offer.NewOfferParams{
		ID:         id,
		Title:      title,
		OfferType:  offer.TypeEvent,
		StartDate:  now.AddDate(0, 0, -1),
		EndDate:    now.AddDate(0, 0, 10),
		IsFeatured: featured,
	})
	require.NoError(t, err)
	require.NoError(t, o.Activate())
	return o
}

func TestListOffers(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	upcoming, err := offer.NewOffer(offer.NewOfferParams{
		ID:        "offer-up",
		Title:     "Autumn Training",
		OfferType: offer.TypeTraining,
		StartDate: now.AddDate(0, 1, 0),
		EndDate:   now.AddDate(0, 2, 0),
	})
	require.NoError(t, err)

	repo := &stubOfferRepo{offers: []*offer.Offer{
		activeOffer(t, "offer-a", "Live Plain", false, now),
		activeOffer(t, "offer-b", "Live Featured", true, now),
		upcoming,
	}}
	handler := NewListOffersHandler(repo)

	t.Run("active view", func(t *testing.T) {
		result, err := handler.Handle(ctx, ListOffersQuery{View: OfferViewActive})
		require.NoError(t, err)
		assert.Len(t, result.Offers, 2)
	})

	t.Run("featured view", func(t *testing.T) {
		result, err := handler.Handle(ctx, ListOffersQuery{View: OfferViewFeatured})
		require.NoError(t, err)
		require.Len(t, result.Offers, 1)
		assert.Equal(t, "Live Featured", result.Offers[0].Title)
	})

	t.Run("upcoming view", func(t *testing.T) {
		result, err := handler.Handle(ctx, ListOffersQuery{View: OfferViewUpcoming})
		require.NoError(t, err)
		require.Len(t, result.Offers, 1)
		assert.Equal(t, "Autumn Training", result.Offers[0].Title)
	})

	t.Run("unknown view rejected", func(t *testing.T) {
		_, err := handler.Handle(ctx, ListOffersQuery{View: "bogus"})
		assert.True(t, shared.IsValidation(err))
	})

	t.Run("home feed", func(t *testing.T) {
		result, err := handler.HandleHome(ctx)
		require.NoError(t, err)

		assert.Len(t, result.Active, 2)
		assert.Len(t, result.Featured, 1)
		assert.Len(t, result.Upcoming, 1)
	})
}
