package player

import (
	"fmt"
	"sort"
)

// ══════════════════════════════════════════════════════════════════════════════
// SORT CRITERIA
// ══════════════════════════════════════════════════════════════════════════════

// SortCriterion selects the counter a leaderboard is ordered by.
type SortCriterion string

const (
	// ByTotalScore orders by accumulated score. This is the default.
	ByTotalScore SortCriterion = "total_score"
	// ByHighScore orders by the best single-game score.
	ByHighScore SortCriterion = "high_score"
	// ByAverageScore orders by score per game.
	ByAverageScore SortCriterion = "average_score"
	// ByGamesWon orders by number of wins.
	ByGamesWon SortCriterion = "games_won"
)

// IsValid reports whether the criterion is one of the known values.
func (c SortCriterion) IsValid() bool {
	switch c {
	case ByTotalScore, ByHighScore, ByAverageScore, ByGamesWon:
		return true
	default:
		return false
	}
}

// String returns the string representation of the criterion.
func (c SortCriterion) String() string {
	return string(c)
}

// ParseSortCriterion normalizes a raw criterion string.
// Unrecognized values fall back to ByTotalScore instead of raising an error;
// callers that want strict validation should check IsValid on the raw input.
func ParseSortCriterion(s string) SortCriterion {
	c := SortCriterion(s)
	if c.IsValid() {
		return c
	}
	return ByTotalScore
}

// value extracts the sortable value of a player for this criterion.
func (c SortCriterion) value(p *Player) float64 {
	switch c {
	case ByHighScore:
		return float64(p.HighScore)
	case ByAverageScore:
		return p.AverageScore
	case ByGamesWon:
		return float64(p.GamesWon)
	default:
		return float64(p.TotalScore)
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// LEADERBOARD & RANKINGS
// ══════════════════════════════════════════════════════════════════════════════

// Leaderboard limits. A request above MaxLeaderboardLimit is clamped rather
// than rejected so a greedy client still gets a bounded result set.
const (
	DefaultLeaderboardLimit = 20
	MaxLeaderboardLimit     = 100
)

// ClampLimit normalizes a requested leaderboard size into [1, MaxLeaderboardLimit].
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLeaderboardLimit
	}
	if limit > MaxLeaderboardLimit {
		return MaxLeaderboardLimit
	}
	return limit
}

// RankedPlayer pairs a player with its 1-based position in a ranking.
type RankedPlayer struct {
	// Position is a dense row number: tied players still get consecutive
	// distinct positions, differentiated only by the name tiebreak.
	Position int

	// Player is the ranked record.
	Player *Player
}

// String returns a string representation for logging.
func (r RankedPlayer) String() string {
	return fmt.Sprintf("#%d %s", r.Position, r.Player.DisplayName)
}

// Leaderboard returns the top players ordered by the criterion, descending.
// The input slice is not modified. The result holds at most limit entries
// after clamping.
func Leaderboard(players []*Player, criterion SortCriterion, limit int) []*Player {
	limit = ClampLimit(limit)

	sorted := sortPlayers(players, criterion)
	if limit < len(sorted) {
		sorted = sorted[:limit]
	}
	return sorted
}

// Rankings returns every player with an explicit 1-based position.
// Ordering is deterministic: criterion descending, then DisplayName ascending
// whenever the criterion ties.
func Rankings(players []*Player, criterion SortCriterion) []RankedPlayer {
	sorted := sortPlayers(players, criterion)

	ranked := make([]RankedPlayer, len(sorted))
	for i, p := range sorted {
		ranked[i] = RankedPlayer{Position: i + 1, Player: p}
	}
	return ranked
}

// sortPlayers returns a copy of players ordered by criterion descending with
// the display-name tiebreak applied.
func sortPlayers(players []*Player, criterion SortCriterion) []*Player {
	sorted := make([]*Player, len(players))
	copy(sorted, players)

	sort.Slice(sorted, func(i, j int) bool {
		vi, vj := criterion.value(sorted[i]), criterion.value(sorted[j])
		if vi != vj {
			return vi > vj
		}
		// Equal criterion values sort by name so the order is total.
		return sorted[i].DisplayName < sorted[j].DisplayName
	})

	return sorted
}
