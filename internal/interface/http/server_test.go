package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playzo/playzo-backend/internal/application/command"
	"github.com/playzo/playzo-backend/internal/application/query"
	"github.com/playzo/playzo-backend/internal/domain/offer"
	"github.com/playzo/playzo-backend/internal/domain/player"
	"github.com/playzo/playzo-backend/internal/domain/shared"
	"github.com/playzo/playzo-backend/internal/domain/user"
	"github.com/playzo/playzo-backend/internal/infrastructure/auth"
	"github.com/playzo/playzo-backend/internal/infrastructure/service"
	"github.com/playzo/playzo-backend/internal/interface/http/handlers"
)

// ─────────────────────────────────────────────────────────────────────────────
// In-memory fakes
// ─────────────────────────────────────────────────────────────────────────────

type memPlayerRepo struct {
	mu      sync.Mutex
	players map[string]*player.Player
}

func newMemPlayerRepo() *memPlayerRepo {
	return &memPlayerRepo{players: make(map[string]*player.Player)}
}

func (r *memPlayerRepo) Create(_ context.Context, p *player.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.players[p.ID]; ok {
		return player.ErrPlayerAlreadyExists
	}
	r.players[p.ID] = p.Clone()
	return nil
}

func (r *memPlayerRepo) GetByID(_ context.Context, id string) (*player.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.players[id]
	if !ok {
		return nil, player.ErrPlayerNotFound
	}
	return p.Clone(), nil
}

func (r *memPlayerRepo) GetByUserID(_ context.Context, userID string) (*player.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.players {
		if p.UserID == userID {
			return p.Clone(), nil
		}
	}
	return nil, player.ErrPlayerNotFound
}

func (r *memPlayerRepo) GetByEmail(_ context.Context, email string) (*player.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.players {
		if p.Email == email {
			return p.Clone(), nil
		}
	}
	return nil, player.ErrPlayerNotFound
}

func (r *memPlayerRepo) Update(_ context.Context, p *player.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.players[p.ID]; !ok {
		return player.ErrPlayerNotFound
	}
	r.players[p.ID] = p.Clone()
	return nil
}

func (r *memPlayerRepo) Mutate(_ context.Context, id string, fn func(*player.Player) error) (*player.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.players[id]
	if !ok {
		return nil, player.ErrPlayerNotFound
	}
	working := p.Clone()
	if err := fn(working); err != nil {
		return nil, err
	}
	r.players[id] = working
	return working.Clone(), nil
}

func (r *memPlayerRepo) ListAll(_ context.Context) ([]*player.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*player.Player, 0, len(r.players))
	for _, p := range r.players {
		out = append(out, p.Clone())
	}
	return out, nil
}

func (r *memPlayerRepo) List(ctx context.Context, _ player.ListOptions) ([]*player.Player, error) {
	return r.ListAll(ctx)
}

func (r *memPlayerRepo) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.players), nil
}

func (r *memPlayerRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.players, id)
	return nil
}

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*user.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*user.User)}
}

func (r *memUserRepo) Create(_ context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Username == u.Username {
			return user.ErrUserAlreadyExists
		}
	}
	r.users[u.ID] = u.Clone()
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, shared.ErrUserNotFound
	}
	return u.Clone(), nil
}

func (r *memUserRepo) GetByUsername(_ context.Context, username user.Username) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return u.Clone(), nil
		}
	}
	return nil, shared.ErrUserNotFound
}

func (r *memUserRepo) Update(_ context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = u.Clone()
	return nil
}

func (r *memUserRepo) ExistsByUsername(_ context.Context, username user.Username) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

type memOfferRepo struct {
	mu     sync.Mutex
	offers map[string]*offer.Offer
}

func newMemOfferRepo() *memOfferRepo {
	return &memOfferRepo{offers: make(map[string]*offer.Offer)}
}

func (r *memOfferRepo) Create(_ context.Context, o *offer.Offer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.offers[o.ID] = o.Clone()
	return nil
}

func (r *memOfferRepo) GetByID(_ context.Context, id string) (*offer.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.offers[id]
	if !ok {
		return nil, offer.ErrOfferNotFound
	}
	return o.Clone(), nil
}

func (r *memOfferRepo) Update(_ context.Context, o *offer.Offer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.offers[o.ID]; !ok {
		return offer.ErrOfferNotFound
	}
	r.offers[o.ID] = o.Clone()
	return nil
}

func (r *memOfferRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.offers[id]; !ok {
		return offer.ErrOfferNotFound
	}
	delete(r.offers, id)
	return nil
}

func (r *memOfferRepo) List(_ context.Context, filter offer.ListFilter) ([]*offer.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*offer.Offer, 0, len(r.offers))
	for _, o := range r.offers {
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		out = append(out, o.Clone())
	}
	return out, nil
}

func (r *memOfferRepo) ExpireEnded(_ context.Context, now time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, o := range r.offers {
		if o.Status != offer.StatusExpired && o.HasEnded(now) {
			o.Expire()
			count++
		}
	}
	return count, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Test server setup
// ─────────────────────────────────────────────────────────────────────────────

type testEnv struct {
	server     *Server
	userRepo   *memUserRepo
	playerRepo *memPlayerRepo
	offerRepo  *memOfferRepo
	tokens     *auth.TokenManager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	userRepo := newMemUserRepo()
	playerRepo := newMemPlayerRepo()
	offerRepo := newMemOfferRepo()

	tokens, err := auth.NewTokenManager(auth.Config{
		Secret:     "test-secret-test-secret-test-secret!",
		Issuer:     "playzo",
		AccessTTL:  30 * time.Minute,
		RefreshTTL: 24 * time.Hour,
	})
	require.NoError(t, err)

	revoker := auth.NewMemoryRevoker()
	rankingSource := service.NewLeaderboardService(playerRepo, nil, nil)

	cfg := DefaultConfig()
	cfg.RateLimitPerMinute = 0

	server := NewServer(cfg, Dependencies{
		RegisterPlayerHandler:   command.NewRegisterPlayerHandler(userRepo, playerRepo, nil),
		UpdatePlayerHandler:     command.NewUpdatePlayerHandler(playerRepo, nil),
		RecordGameResultHandler: command.NewRecordGameResultHandler(playerRepo, nil),
		RecordWinHandler:        command.NewRecordWinHandler(playerRepo, nil),
		ManageOfferHandler:      command.NewManageOfferHandler(offerRepo, userRepo, nil),
		LoginHandler:            command.NewLoginHandler(userRepo, tokens, nil),
		RefreshTokenHandler:     command.NewRefreshTokenHandler(userRepo, tokens, revoker),
		LogoutHandler:           command.NewLogoutHandler(tokens, revoker, nil),
		ChangePasswordHandler:   command.NewChangePasswordHandler(userRepo),

		GetLeaderboardHandler: query.NewGetLeaderboardHandler(playerRepo, rankingSource),
		GetRankingsHandler:    query.NewGetRankingsHandler(playerRepo),
		GetPlayerStatsHandler: query.NewGetPlayerStatsHandler(playerRepo),
		ListOffersHandler:     query.NewListOffersHandler(offerRepo),

		Tokens:        tokens,
		PlayerRepo:    playerRepo,
		HealthChecker: handlers.NewNoopHealthChecker(),
	})

	return &testEnv{
		server:     server,
		userRepo:   userRepo,
		playerRepo: playerRepo,
		offerRepo:  offerRepo,
		tokens:     tokens,
	}
}

// do sends a request through the full middleware chain.
func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.server.httpServer.Handler.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *APIError       `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func (e *testEnv) register(t *testing.T, username, password, displayName string) {
	t.Helper()

	rec := e.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{
		"username":     username,
		"password":     password,
		"display_name": displayName,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func (e *testEnv) login(t *testing.T, username, password string) (access, refresh string) {
	t.Helper()

	rec := e.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]interface{}{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp tokenResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &resp))
	require.NotEmpty(t, resp.AccessToken)
	require.NotEmpty(t, resp.RefreshToken)
	return resp.AccessToken, resp.RefreshToken
}

func (e *testEnv) seedModerator(t *testing.T, username, password string) {
	t.Helper()

	u, err := user.NewUser(uuid.NewString(), user.Username(username), "Moderator", password)
	require.NoError(t, err)
	u.IsModerator = true
	require.NoError(t, e.userRepo.Create(context.Background(), u))
}

// ─────────────────────────────────────────────────────────────────────────────
// Tests
// ─────────────────────────────────────────────────────────────────────────────

func TestHealthEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeEnvelope(t, rec).Success)
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{
		"username": "aliaa",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_request", decodeEnvelope(t, rec).Error.Code)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "aliaa", "password123", "Alia")

	rec := env.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{
		"username":     "aliaa",
		"password":     "password123",
		"display_name": "Alia Again",
	})

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "already_exists", decodeEnvelope(t, rec).Error.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "aliaa", "password123", "Alia")

	rec := env.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]interface{}{
		"username": "aliaa",
		"password": "wrong-password",
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProfileRequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/players/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/players/me", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProfileAndGameResultFlow(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "aliaa", "password123", "Alia")
	access, _ := env.login(t, "aliaa", "password123")

	rec := env.do(t, http.MethodPost, "/api/v1/players/me/results", access, map[string]interface{}{
		"score": 150,
		"won":   true,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodGet, "/api/v1/players/me", access, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var stats map[string]interface{}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &stats))
	assert.Equal(t, "Alia", stats["display_name"])
	assert.EqualValues(t, 150, stats["total_score"])
	assert.EqualValues(t, 1, stats["games_played"])
	assert.EqualValues(t, 1, stats["games_won"])
}

func TestUnknownPlayerStatsReturns404(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/players/"+uuid.NewString()+"/stats", "", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code, rec.Body.String())
	assert.Equal(t, "not_found", decodeEnvelope(t, rec).Error.Code)
}

func TestWinWithoutGameRejected(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "aliaa", "password123", "Alia")
	access, _ := env.login(t, "aliaa", "password123")

	rec := env.do(t, http.MethodPost, "/api/v1/players/me/wins", access, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
}

func TestLeaderboardOrdering(t *testing.T) {
	env := newTestEnv(t)

	for i, score := range []int{100, 300, 200} {
		username := fmt.Sprintf("player%d", i)
		env.register(t, username, "password123", fmt.Sprintf("Player %d", i))
		access, _ := env.login(t, username, "password123")

		rec := env.do(t, http.MethodPost, "/api/v1/players/me/results", access, map[string]interface{}{
			"score": score,
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	rec := env.do(t, http.MethodGet, "/api/v1/leaderboard?sort_by=total_score", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var result struct {
		Entries []struct {
			Rank       int    `json:"rank"`
			TotalScore int    `json:"total_score"`
			Name       string `json:"display_name"`
		} `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &result))
	require.Len(t, result.Entries, 3)
	assert.Equal(t, 300, result.Entries[0].TotalScore)
	assert.Equal(t, 200, result.Entries[1].TotalScore)
	assert.Equal(t, 100, result.Entries[2].TotalScore)
	assert.Equal(t, 1, result.Entries[0].Rank)
}

func TestRefreshRotation(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "aliaa", "password123", "Alia")
	_, refresh := env.login(t, "aliaa", "password123")

	rec := env.do(t, http.MethodPost, "/api/v1/auth/refresh", "", map[string]interface{}{
		"refresh_token": refresh,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// The presented token is revoked after rotation; replaying it must fail.
	rec = env.do(t, http.MethodPost, "/api/v1/auth/refresh", "", map[string]interface{}{
		"refresh_token": refresh,
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "aliaa", "password123", "Alia")
	_, refresh := env.login(t, "aliaa", "password123")

	rec := env.do(t, http.MethodPost, "/api/v1/auth/logout", "", map[string]interface{}{
		"refresh_token": refresh,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/auth/refresh", "", map[string]interface{}{
		"refresh_token": refresh,
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestChangePassword(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "rana", "password-1", "Rana")
	access, _ := env.login(t, "rana", "password-1")

	rec := env.do(t, http.MethodPost, "/api/v1/auth/password", access, map[string]string{
		"current_password": "not-the-password",
		"new_password":     "password-2",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/auth/password", access, map[string]string{
		"current_password": "password-1",
		"new_password":     "password-2",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": "rana",
		"password": "password-1",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	env.login(t, "rana", "password-2")
}

func TestOfferAdminRequiresModerator(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "aliaa", "password123", "Alia")
	access, _ := env.login(t, "aliaa", "password123")

	rec := env.do(t, http.MethodPost, "/api/v1/admin/offers", access, map[string]interface{}{
		"title":      "Summer Discount",
		"start_date": "2026-06-01",
		"end_date":   "2026-08-31",
	})

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestOfferAdminCreateAndList(t *testing.T) {
	env := newTestEnv(t)
	env.seedModerator(t, "moderator", "password123")
	access, _ := env.login(t, "moderator", "password123")

	rec := env.do(t, http.MethodPost, "/api/v1/admin/offers", access, map[string]interface{}{
		"title":      "Summer Discount",
		"offer_type": "DISCOUNT",
		"start_date": time.Now().UTC().Format("2006-01-02"),
		"end_date":   time.Now().UTC().AddDate(0, 1, 0).Format("2006-01-02"),
		"publish":    true,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created adminOfferDTO
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &created))
	assert.Equal(t, "Summer Discount", created.Title)
	assert.Equal(t, "ACTIVE", created.Status)

	rec = env.do(t, http.MethodGet, "/api/v1/offers", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var result struct {
		Offers []json.RawMessage `json:"offers"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &result))
	assert.Len(t, result.Offers, 1)
}

func TestUnknownOfferReturns404(t *testing.T) {
	env := newTestEnv(t)
	env.seedModerator(t, "moderator", "password123")
	access, _ := env.login(t, "moderator", "password123")

	rec := env.do(t, http.MethodPost, "/api/v1/admin/offers/"+uuid.NewString()+"/activate", access, nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
