package command

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playzo/playzo-backend/internal/domain/player"
	"github.com/playzo/playzo-backend/internal/domain/shared"
)

func seedPlayer(t *testing.T, repo *fakePlayerRepo, displayName string) *player.Player {
	t.Helper()

	p, err := player.NewPlayer(player.NewPlayerParams{
		ID:          "player-" + displayName,
		UserID:      "user-" + displayName,
		DisplayName: displayName,
		Gender:      player.GenderMale,
		Email:       displayName + "@playzo.example",
		Phone:       "+201000000001",
	})
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

func TestRecordGameResult(t *testing.T) {
	ctx := context.Background()

	t.Run("first game", func(t *testing.T) {
		repo := newFakePlayerRepo()
		bus := &fakeEventBus{}
		p := seedPlayer(t, repo, "amira")
		handler := NewRecordGameResultHandler(repo, bus)

		result, err := handler.Handle(ctx, RecordGameResultCommand{PlayerID: p.ID, Score: 50})
		require.NoError(t, err)

		assert.Equal(t, 50, result.TotalScore)
		assert.Equal(t, 50, result.HighScore)
		assert.Equal(t, 1, result.GamesPlayed)
		assert.InDelta(t, 50.0, result.AverageScore, 1e-9)

		events := bus.published()
		require.Len(t, events, 1)
		assert.Equal(t, shared.EventScoreRecorded, events[0].EventType())
	})

	t.Run("negative score rejected, state untouched", func(t *testing.T) {
		repo := newFakePlayerRepo()
		p := seedPlayer(t, repo, "amira")
		handler := NewRecordGameResultHandler(repo, &fakeEventBus{})

		_, err := handler.Handle(ctx, RecordGameResultCommand{PlayerID: p.ID, Score: -5})
		assert.ErrorIs(t, err, shared.ErrNegativeValue)

		stored, err := repo.GetByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, stored.GamesPlayed)
		assert.Equal(t, 0, stored.TotalScore)
	})

	t.Run("won game bumps both counters", func(t *testing.T) {
		repo := newFakePlayerRepo()
		bus := &fakeEventBus{}
		p := seedPlayer(t, repo, "amira")
		handler := NewRecordGameResultHandler(repo, bus)

		result, err := handler.Handle(ctx, RecordGameResultCommand{PlayerID: p.ID, Score: 30, Won: true})
		require.NoError(t, err)

		assert.Equal(t, 1, result.GamesPlayed)
		assert.Equal(t, 1, result.GamesWon)
		require.Len(t, bus.published(), 2)
	})

	t.Run("tier change emits event", func(t *testing.T) {
		repo := newFakePlayerRepo()
		bus := &fakeEventBus{}
		p := seedPlayer(t, repo, "amira")
		handler := NewRecordGameResultHandler(repo, bus)

		result, err := handler.Handle(ctx, RecordGameResultCommand{PlayerID: p.ID, Score: 150})
		require.NoError(t, err)

		assert.True(t, result.TierChanged)
		assert.Equal(t, player.TierIntermediate, result.Tier)

		var sawTierChange bool
		for _, e := range bus.published() {
			if e.EventType() == shared.EventTierChanged {
				sawTierChange = true
			}
		}
		assert.True(t, sawTierChange)
	})

	t.Run("unknown player", func(t *testing.T) {
		handler := NewRecordGameResultHandler(newFakePlayerRepo(), &fakeEventBus{})

		_, err := handler.Handle(ctx, RecordGameResultCommand{PlayerID: "nope", Score: 10})
		assert.True(t, shared.IsNotFound(err))
		assert.ErrorIs(t, err, player.ErrPlayerNotFound)
	})

	t.Run("average stays consistent over many games", func(t *testing.T) {
		repo := newFakePlayerRepo()
		p := seedPlayer(t, repo, "amira")
		handler := NewRecordGameResultHandler(repo, &fakeEventBus{})

		scores := []int{10, 0, 35, 90, 5}
		total := 0
		for _, s := range scores {
			total += s
			_, err := handler.Handle(ctx, RecordGameResultCommand{PlayerID: p.ID, Score: s})
			require.NoError(t, err)
		}

		stored, err := repo.GetByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, total, stored.TotalScore)
		assert.Equal(t, len(scores), stored.GamesPlayed)
		assert.InDelta(t, float64(total)/float64(len(scores)), stored.AverageScore, 1e-9)
	})
}

func TestRecordWin(t *testing.T) {
	ctx := context.Background()

	t.Run("win after game", func(t *testing.T) {
		repo := newFakePlayerRepo()
		p := seedPlayer(t, repo, "amira")

		_, err := NewRecordGameResultHandler(repo, &fakeEventBus{}).
			Handle(ctx, RecordGameResultCommand{PlayerID: p.ID, Score: 40})
		require.NoError(t, err)

		result, err := NewRecordWinHandler(repo, &fakeEventBus{}).
			Handle(ctx, RecordWinCommand{PlayerID: p.ID, WonAt: time.Now()})
		require.NoError(t, err)

		assert.Equal(t, 1, result.GamesWon)
		assert.InDelta(t, 100.0, result.WinRate, 1e-9)
	})

	t.Run("win without game rejected", func(t *testing.T) {
		repo := newFakePlayerRepo()
		p := seedPlayer(t, repo, "amira")

		_, err := NewRecordWinHandler(repo, &fakeEventBus{}).
			Handle(ctx, RecordWinCommand{PlayerID: p.ID})
		assert.ErrorIs(t, err, player.ErrWinWithoutGame)
		assert.True(t, shared.IsValidation(err))

		stored, err := repo.GetByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, stored.GamesWon)
	})
}
