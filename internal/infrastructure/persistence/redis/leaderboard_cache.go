package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	"github.com/playzo/playzo-backend/internal/domain/player"
)

// ══════════════════════════════════════════════════════════════════════════════
// LEADERBOARD CACHE
// ══════════════════════════════════════════════════════════════════════════════

// playersHashKey holds the serialized player record per member ID. The sorted
// sets only carry the ordering; the hash carries the data.
const playersHashKey = PrefixLeaderboard + "players"

// criteria lists every sorted set the cache maintains. One ZADD per criterion
// keeps all four orderings readable without recomputation.
var criteria = []player.SortCriterion{
	player.ByTotalScore,
	player.ByHighScore,
	player.ByAverageScore,
	player.ByGamesWon,
}

// LeaderboardCache keeps hot ranking data in Redis sorted sets, one set per
// sort criterion, plus a hash of serialized player records. It implements
// player.LeaderboardCache.
type LeaderboardCache struct {
	cache *Cache
}

// NewLeaderboardCache creates a new LeaderboardCache.
func NewLeaderboardCache(cache *Cache) *LeaderboardCache {
	return &LeaderboardCache{cache: cache}
}

// UpdatePlayer refreshes a single player's entry in every criterion set.
// Called from the score-recorded event handler so reads stay warm between
// full rebuilds.
func (lc *LeaderboardCache) UpdatePlayer(ctx context.Context, p *player.Player) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCacheSerialization, err)
	}

	pipe := lc.cache.Client().Pipeline()

	for _, c := range criteria {
		pipe.ZAdd(ctx, LeaderboardKey(c.String()), redis.Z{
			Score:  criterionValue(c, p),
			Member: p.ID,
		})
	}
	pipe.HSet(ctx, playersHashKey, p.ID, data)
	lc.touchTTLs(ctx, pipe)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("leaderboard cache update: %w", err)
	}

	return nil
}

// Rebuild replaces the cached leaderboard wholesale from the given players.
// The old keys are dropped in the same pipeline, so readers never observe a
// half-built board.
func (lc *LeaderboardCache) Rebuild(ctx context.Context, players []*player.Player) error {
	pipe := lc.cache.Client().TxPipeline()

	pipe.Del(ctx, lc.keys()...)

	for _, p := range players {
		data, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrCacheSerialization, err)
		}

		for _, c := range criteria {
			pipe.ZAdd(ctx, LeaderboardKey(c.String()), redis.Z{
				Score:  criterionValue(c, p),
				Member: p.ID,
			})
		}
		pipe.HSet(ctx, playersHashKey, p.ID, data)
	}
	lc.touchTTLs(ctx, pipe)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("leaderboard cache rebuild: %w", err)
	}

	return nil
}

// Top returns the highest-ranked players for a criterion with dense 1-based
// positions. Returns ErrCacheMiss when the board has not been built yet.
func (lc *LeaderboardCache) Top(ctx context.Context, criterion player.SortCriterion, limit int) ([]player.RankedPlayer, error) {
	limit = player.ClampLimit(limit)
	key := LeaderboardKey(criterion.String())

	ids, err := lc.cache.Client().ZRevRange(ctx, key, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("leaderboard cache read: %w", err)
	}
	if len(ids) == 0 {
		return nil, ErrCacheMiss
	}

	raw, err := lc.cache.Client().HMGet(ctx, playersHashKey, ids...).Result()
	if err != nil {
		return nil, fmt.Errorf("leaderboard cache hydrate: %w", err)
	}

	players := make([]*player.Player, 0, len(ids))
	for _, v := range raw {
		s, ok := v.(string)
		if !ok {
			// Hash entry evicted while the sorted set survived. Treat the
			// whole board as stale and let the caller fall back.
			return nil, ErrCacheMiss
		}

		var p player.Player
		if err := json.Unmarshal([]byte(s), &p); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCacheSerialization, err)
		}
		players = append(players, &p)
	}

	// Redis breaks score ties by member ID, while rankings tiebreak on
	// display name. Re-sort the page so both paths agree.
	sort.Slice(players, func(i, j int) bool {
		vi, vj := criterionValue(criterion, players[i]), criterionValue(criterion, players[j])
		if vi != vj {
			return vi > vj
		}
		return players[i].DisplayName < players[j].DisplayName
	})

	ranked := make([]player.RankedPlayer, len(players))
	for i, p := range players {
		ranked[i] = player.RankedPlayer{Position: i + 1, Player: p}
	}
	return ranked, nil
}

// Invalidate drops every leaderboard key. The next rebuild repopulates them.
func (lc *LeaderboardCache) Invalidate(ctx context.Context) error {
	return lc.cache.Delete(ctx, lc.keys()...)
}

func (lc *LeaderboardCache) keys() []string {
	keys := make([]string, 0, len(criteria)+1)
	for _, c := range criteria {
		keys = append(keys, LeaderboardKey(c.String()))
	}
	return append(keys, playersHashKey)
}

func (lc *LeaderboardCache) touchTTLs(ctx context.Context, pipe redis.Pipeliner) {
	for _, key := range lc.keys() {
		pipe.Expire(ctx, key, TTLLeaderboardCache)
	}
}

// criterionValue mirrors the ordering value used by in-memory rankings so the
// sorted set scores and the repository fallback produce the same order.
func criterionValue(c player.SortCriterion, p *player.Player) float64 {
	switch c {
	case player.ByHighScore:
		return float64(p.HighScore)
	case player.ByAverageScore:
		return p.AverageScore
	case player.ByGamesWon:
		return float64(p.GamesWon)
	default:
		return float64(p.TotalScore)
	}
}
