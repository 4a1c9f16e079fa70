package player

import "math"

// StatsView is the read-only computed projection of a player's counters.
// Win rate and score-per-game are recomputed on every read so they always
// reflect the latest persisted counters.
type StatsView struct {
	PlayerID      string   `json:"player_id"`
	DisplayName   string   `json:"display_name"`
	TotalScore    int      `json:"total_score"`
	HighScore     int      `json:"high_score"`
	GamesPlayed   int      `json:"games_played"`
	GamesWon      int      `json:"games_won"`
	GamesLost     int      `json:"games_lost"`
	AverageScore  float64  `json:"average_score"`
	WinRate       float64  `json:"win_rate"`
	ScorePerGame  float64  `json:"score_per_game"`
	Tier          RankTier `json:"tier"`
	LastGameScore *int     `json:"last_game_score,omitempty"`
}

// ComputeStats builds the derived statistics view for a player.
// Rates are zero for players who have not yet recorded a game.
func ComputeStats(p *Player) StatsView {
	view := StatsView{
		PlayerID:      p.ID,
		DisplayName:   p.DisplayName,
		TotalScore:    p.TotalScore,
		HighScore:     p.HighScore,
		GamesPlayed:   p.GamesPlayed,
		GamesWon:      p.GamesWon,
		GamesLost:     p.GamesLost(),
		AverageScore:  p.AverageScore,
		Tier:          p.Tier(),
		LastGameScore: p.LastGameScore,
	}

	if p.GamesPlayed > 0 {
		view.WinRate = round2(float64(p.GamesWon) / float64(p.GamesPlayed) * 100)
		view.ScorePerGame = float64(p.TotalScore) / float64(p.GamesPlayed)
	}

	return view
}

// round2 rounds to two decimal digits, matching how win rates are presented.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
