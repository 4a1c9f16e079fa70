package player

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rankedNames(ranked []RankedPlayer) []string {
	names := make([]string, len(ranked))
	for i, r := range ranked {
		names[i] = r.Player.DisplayName
	}
	return names
}

func playerWithCounters(t *testing.T, name string, total, high, played, won int) *Player {
	t.Helper()

	p := newTestPlayer(t, name)
	p.TotalScore = total
	p.HighScore = high
	p.GamesPlayed = played
	p.GamesWon = won
	if played > 0 {
		p.AverageScore = float64(total) / float64(played)
	}
	return p
}

func TestParseSortCriterion(t *testing.T) {
	assert.Equal(t, ByTotalScore, ParseSortCriterion("total_score"))
	assert.Equal(t, ByHighScore, ParseSortCriterion("high_score"))
	assert.Equal(t, ByAverageScore, ParseSortCriterion("average_score"))
	assert.Equal(t, ByGamesWon, ParseSortCriterion("games_won"))

	// Unknown values silently normalize to the default.
	assert.Equal(t, ByTotalScore, ParseSortCriterion("bogus"))
	assert.Equal(t, ByTotalScore, ParseSortCriterion(""))
}

func TestLeaderboard_OrderAndLimit(t *testing.T) {
	players := []*Player{
		playerWithCounters(t, "amira", 300, 80, 5, 2),
		playerWithCounters(t, "basel", 900, 200, 9, 5),
		playerWithCounters(t, "chadi", 120, 60, 3, 1),
	}

	top := Leaderboard(players, ByTotalScore, 2)
	require.Len(t, top, 2)
	assert.Equal(t, "basel", top[0].DisplayName)
	assert.Equal(t, "amira", top[1].DisplayName)

	// The input slice must not be reordered.
	assert.Equal(t, "amira", players[0].DisplayName)
}

func TestLeaderboard_LimitClamping(t *testing.T) {
	players := []*Player{playerWithCounters(t, "amira", 300, 80, 5, 2)}

	assert.Len(t, Leaderboard(players, ByTotalScore, 0), 1)
	assert.Len(t, Leaderboard(players, ByTotalScore, -3), 1)
	assert.Len(t, Leaderboard(players, ByTotalScore, 100000), 1)

	assert.Equal(t, DefaultLeaderboardLimit, ClampLimit(0))
	assert.Equal(t, MaxLeaderboardLimit, ClampLimit(5000))
	assert.Equal(t, 7, ClampLimit(7))
}

func TestLeaderboard_UnknownCriterionFallsBackToTotalScore(t *testing.T) {
	players := []*Player{
		playerWithCounters(t, "amira", 300, 999, 5, 2),
		playerWithCounters(t, "basel", 900, 10, 9, 5),
	}

	byDefault := Leaderboard(players, ByTotalScore, 10)
	byUnknown := Leaderboard(players, ParseSortCriterion("win_streak"), 10)

	require.Equal(t, len(byDefault), len(byUnknown))
	for i := range byDefault {
		assert.Equal(t, byDefault[i].ID, byUnknown[i].ID)
	}
}

func TestLeaderboard_ByCriterion(t *testing.T) {
	players := []*Player{
		playerWithCounters(t, "amira", 300, 250, 10, 8),
		playerWithCounters(t, "basel", 900, 120, 30, 4),
	}

	assert.Equal(t, "basel", Leaderboard(players, ByTotalScore, 10)[0].DisplayName)
	assert.Equal(t, "amira", Leaderboard(players, ByHighScore, 10)[0].DisplayName)
	assert.Equal(t, "amira", Leaderboard(players, ByAverageScore, 10)[0].DisplayName)
	assert.Equal(t, "amira", Leaderboard(players, ByGamesWon, 10)[0].DisplayName)
}

func TestRankings_TieBreakAndPositions(t *testing.T) {
	// Two tied players order by name and still get distinct positions.
	players := []*Player{
		playerWithCounters(t, "zainab", 1200, 300, 12, 6),
		playerWithCounters(t, "yousef", 1200, 280, 11, 7),
		playerWithCounters(t, "karim", 300, 90, 6, 1),
	}

	ranked := Rankings(players, ByTotalScore)
	require.Len(t, ranked, 3)

	assert.Equal(t, []string{"yousef", "zainab", "karim"}, rankedNames(ranked))
	assert.Equal(t, 1, ranked[0].Position)
	assert.Equal(t, 2, ranked[1].Position)
	assert.Equal(t, 3, ranked[2].Position)
}

func TestRankings_Deterministic(t *testing.T) {
	players := []*Player{
		playerWithCounters(t, "dina", 500, 100, 10, 5),
		playerWithCounters(t, "adel", 500, 100, 10, 5),
		playerWithCounters(t, "bila", 500, 100, 10, 5),
	}

	first := rankedNames(Rankings(players, ByTotalScore))
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, rankedNames(Rankings(players, ByTotalScore)))
	}
	assert.Equal(t, []string{"adel", "bila", "dina"}, first)
}

func TestRankings_Empty(t *testing.T) {
	assert.Empty(t, Rankings(nil, ByTotalScore))
	assert.Empty(t, Leaderboard(nil, ByTotalScore, 10))
}
