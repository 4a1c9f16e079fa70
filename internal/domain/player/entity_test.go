package player

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPlayer(t *testing.T, name string) *Player {
	t.Helper()

	p, err := NewPlayer(NewPlayerParams{
		ID:          "11111111-1111-1111-1111-111111111111",
		UserID:      "22222222-2222-2222-2222-222222222222",
		DisplayName: name,
		Gender:      GenderMale,
		Email:       name + "@playzo.app",
		Phone:       "+201001234567",
	})
	require.NoError(t, err)
	return p
}

func TestNewPlayer_Validation(t *testing.T) {
	base := NewPlayerParams{
		ID:          "id",
		UserID:      "uid",
		DisplayName: "Omar",
		Gender:      GenderMale,
		Email:       "omar@playzo.app",
		Phone:       "+20100",
	}

	t.Run("valid", func(t *testing.T) {
		p, err := NewPlayer(base)
		require.NoError(t, err)
		assert.Equal(t, 0, p.TotalScore)
		assert.Equal(t, 0, p.GamesPlayed)
		assert.Equal(t, 0, p.GamesWon)
		assert.Equal(t, 0.0, p.AverageScore)
		assert.Nil(t, p.LastGameScore)
		assert.Nil(t, p.LastGameDate)
	})

	t.Run("empty display name", func(t *testing.T) {
		params := base
		params.DisplayName = "   "
		_, err := NewPlayer(params)
		assert.ErrorIs(t, err, ErrInvalidDisplayName)
	})

	t.Run("bad gender", func(t *testing.T) {
		params := base
		params.Gender = "X"
		_, err := NewPlayer(params)
		assert.ErrorIs(t, err, ErrInvalidGender)
	})

	t.Run("bad email", func(t *testing.T) {
		params := base
		params.Email = "not-an-email"
		_, err := NewPlayer(params)
		assert.ErrorIs(t, err, ErrInvalidEmail)
	})
}

func TestRecordGameResult_FirstGame(t *testing.T) {
	p := newTestPlayer(t, "Nour")
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	err := p.RecordGameResult(50, now)
	require.NoError(t, err)

	assert.Equal(t, 50, p.TotalScore)
	assert.Equal(t, 1, p.GamesPlayed)
	assert.Equal(t, 50, p.HighScore)
	assert.Equal(t, 50.0, p.AverageScore)
	require.NotNil(t, p.LastGameScore)
	assert.Equal(t, 50, *p.LastGameScore)
	require.NotNil(t, p.LastGameDate)
	assert.Equal(t, now, *p.LastGameDate)
}

func TestRecordGameResult_NegativeScoreLeavesRecordUntouched(t *testing.T) {
	p := newTestPlayer(t, "Nour")
	now := time.Now().UTC()
	require.NoError(t, p.RecordGameResult(60, now))
	require.NoError(t, p.RecordGameResult(40, now))

	before := p.Clone()

	err := p.RecordGameResult(-5, now)
	assert.ErrorIs(t, err, ErrInvalidScore)

	assert.Equal(t, before.TotalScore, p.TotalScore)
	assert.Equal(t, before.GamesPlayed, p.GamesPlayed)
	assert.Equal(t, before.HighScore, p.HighScore)
	assert.Equal(t, before.AverageScore, p.AverageScore)
	assert.Equal(t, *before.LastGameScore, *p.LastGameScore)
}

func TestRecordGameResult_Monotonicity(t *testing.T) {
	// total_score is the sum of all recorded scores, high_score the maximum.
	p := newTestPlayer(t, "Nour")
	now := time.Now().UTC()

	scores := []Score{10, 250, 0, 90, 250, 30}
	var sum, max int
	for _, s := range scores {
		require.NoError(t, p.RecordGameResult(s, now))

		sum += int(s)
		if int(s) > max {
			max = int(s)
		}
		assert.Equal(t, sum, p.TotalScore)
		assert.Equal(t, max, p.HighScore)
	}
	assert.Equal(t, len(scores), p.GamesPlayed)
}

func TestRecordGameResult_AverageConsistency(t *testing.T) {
	p := newTestPlayer(t, "Nour")
	now := time.Now().UTC()
	assert.Equal(t, 0.0, p.AverageScore)

	for _, s := range []Score{7, 13, 99, 0, 42} {
		require.NoError(t, p.RecordGameResult(s, now))
		expected := float64(p.TotalScore) / float64(p.GamesPlayed)
		assert.InDelta(t, expected, p.AverageScore, 1e-9)
	}
}

func TestRecordWin(t *testing.T) {
	p := newTestPlayer(t, "Nour")
	now := time.Now().UTC()

	t.Run("rejected without a game", func(t *testing.T) {
		err := p.RecordWin(now)
		assert.ErrorIs(t, err, ErrWinWithoutGame)
		assert.Equal(t, 0, p.GamesWon)
	})

	t.Run("accepted after a game", func(t *testing.T) {
		require.NoError(t, p.RecordGameResult(100, now))
		require.NoError(t, p.RecordWin(now))
		assert.Equal(t, 1, p.GamesWon)
	})

	t.Run("never exceeds games played", func(t *testing.T) {
		err := p.RecordWin(now)
		assert.ErrorIs(t, err, ErrWinWithoutGame)
		assert.Equal(t, 1, p.GamesWon)
		assert.LessOrEqual(t, p.GamesWon, p.GamesPlayed)
	})
}

func TestTierForScore_Boundaries(t *testing.T) {
	tests := []struct {
		totalScore int
		want       RankTier
	}{
		{0, TierBeginner},
		{100, TierBeginner},
		{101, TierIntermediate},
		{500, TierIntermediate},
		{501, TierAdvanced},
		{1000, TierAdvanced},
		{1001, TierExpert},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, TierForScore(tt.totalScore), "total_score=%d", tt.totalScore)
	}
}

func TestClone_IsDeep(t *testing.T) {
	p := newTestPlayer(t, "Nour")
	now := time.Now().UTC()
	require.NoError(t, p.RecordGameResult(10, now))

	clone := p.Clone()
	*clone.LastGameScore = 999

	assert.Equal(t, 10, *p.LastGameScore)
}
