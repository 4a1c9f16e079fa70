package player

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeStats_ZeroGames(t *testing.T) {
	p := newTestPlayer(t, "Salma")

	view := ComputeStats(p)

	assert.Equal(t, 0.0, view.WinRate)
	assert.Equal(t, 0.0, view.ScorePerGame)
	assert.Equal(t, 0, view.GamesLost)
	assert.Equal(t, TierBeginner, view.Tier)
	assert.Nil(t, view.LastGameScore)
}

func TestComputeStats_WinRateAndLosses(t *testing.T) {
	// 4 games, 1 win: win_rate 25.0, games_lost 3.
	p := newTestPlayer(t, "Salma")
	now := time.Now().UTC()
	for i := 0; i < 4; i++ {
		require.NoError(t, p.RecordGameResult(25, now))
	}
	require.NoError(t, p.RecordWin(now))

	view := ComputeStats(p)

	assert.Equal(t, 25.0, view.WinRate)
	assert.Equal(t, 3, view.GamesLost)
	assert.Equal(t, 25.0, view.ScorePerGame)
	assert.Equal(t, 100, view.TotalScore)
}

func TestComputeStats_WinRateRounding(t *testing.T) {
	// 1 win out of 3 games is 33.333... and must round to 33.33.
	p := newTestPlayer(t, "Salma")
	now := time.Now().UTC()
	for i := 0; i < 3; i++ {
		require.NoError(t, p.RecordGameResult(10, now))
	}
	require.NoError(t, p.RecordWin(now))

	view := ComputeStats(p)
	assert.Equal(t, 33.33, view.WinRate)

	// 2 out of 3 rounds up to 66.67.
	require.NoError(t, p.RecordWin(now))
	view = ComputeStats(p)
	assert.Equal(t, 66.67, view.WinRate)
}

func TestComputeStats_RecomputedPerRead(t *testing.T) {
	p := newTestPlayer(t, "Salma")
	now := time.Now().UTC()

	require.NoError(t, p.RecordGameResult(10, now))
	first := ComputeStats(p)

	require.NoError(t, p.RecordGameResult(30, now))
	second := ComputeStats(p)

	assert.Equal(t, 10.0, first.ScorePerGame)
	assert.Equal(t, 20.0, second.ScorePerGame)
}
