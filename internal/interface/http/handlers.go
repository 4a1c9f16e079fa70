package http

import (
	"errors"
	"net/http"
	"time"

	appconfig "github.com/playzo/playzo-backend/config"
	"github.com/playzo/playzo-backend/internal/application/command"
	"github.com/playzo/playzo-backend/internal/application/query"
	"github.com/playzo/playzo-backend/internal/domain/offer"
	"github.com/playzo/playzo-backend/internal/domain/player"
	"github.com/playzo/playzo-backend/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleRoot serves the root endpoint with basic API information.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	info := map[string]interface{}{
		"name":        "Playzo API",
		"version":     "v1",
		"description": "REST API for the Playzo gaming platform",
		"endpoints": map[string]string{
			"health":      "/health",
			"leaderboard": "/api/v1/leaderboard",
			"rankings":    "/api/v1/rankings",
			"offers":      "/api/v1/offers",
			"register":    "/api/v1/auth/register",
			"login":       "/api/v1/auth/login",
		},
	}

	writeJSON(w, http.StatusOK, info)
}

// handleHealth handles the health check endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker != nil {
		status := s.deps.HealthChecker.Check(r.Context())
		if !status.Healthy {
			writeJSON(w, http.StatusServiceUnavailable, status)
			return
		}
		writeJSON(w, http.StatusOK, status)
		return
	}

	// Default health response
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"uptime":  s.Uptime().String(),
		"version": "v1",
	})
}

// handleReady handles the readiness probe endpoint (for Kubernetes).
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker != nil {
		status := s.deps.HealthChecker.Check(r.Context())
		if !status.Ready {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not_ready",
				"reason": status.Message,
			})
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleLive handles the liveness probe endpoint (for Kubernetes).
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// handleMetrics handles the metrics endpoint.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	metrics := map[string]interface{}{
		"uptime_seconds": s.Uptime().Seconds(),
		"running":        s.IsRunning(),
	}

	writeJSON(w, http.StatusOK, metrics)
}

// ══════════════════════════════════════════════════════════════════════════════
// PLAYER HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// playerForUser loads the profile behind the authenticated account. The
// repository returns bare player sentinels, so a missing profile is mapped
// here rather than falling through to a 500.
func (s *Server) playerForUser(w http.ResponseWriter, r *http.Request, userID string) (*player.Player, bool) {
	p, err := s.deps.PlayerRepo.GetByUserID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, player.ErrPlayerNotFound) {
			writeJSONError(w, http.StatusNotFound, "not_found", "Player not found")
			return nil, false
		}
		s.writeDomainError(w, err, "Failed to load player")
		return nil, false
	}
	return p, true
}

// handleGetMe handles GET /api/v1/players/me
func (s *Server) handleGetMe(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())

	stats, err := s.deps.GetPlayerStatsHandler.Handle(r.Context(), query.GetPlayerStatsQuery{
		UserID: claims.UserID,
	})
	if err != nil {
		s.writeDomainError(w, err, "Failed to load player")
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

type updatePlayerRequest struct {
	DisplayName string `json:"display_name,omitempty"`
	Gender      string `json:"gender,omitempty"`
	Birthdate   string `json:"birthdate,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Address     string `json:"address,omitempty"`
	PhotoURL    string `json:"photo_url,omitempty"`
}

// handleUpdateMe handles PUT /api/v1/players/me
func (s *Server) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())

	var req updatePlayerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload")
		return
	}

	p, ok := s.playerForUser(w, r, claims.UserID)
	if !ok {
		return
	}

	cmd := command.UpdatePlayerCommand{
		PlayerID:    p.ID,
		DisplayName: req.DisplayName,
		Gender:      req.Gender,
		Phone:       req.Phone,
		Address:     req.Address,
		PhotoURL:    req.PhotoURL,
	}
	if req.Birthdate != "" {
		birthdate, err := parseDate(req.Birthdate)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid_request", "birthdate must be YYYY-MM-DD")
			return
		}
		cmd.Birthdate = &birthdate
	}

	updated, err := s.deps.UpdatePlayerHandler.Handle(r.Context(), cmd)
	if err != nil {
		s.writeDomainError(w, err, "Failed to update player")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"player_id":    updated.ID,
		"display_name": updated.DisplayName,
		"updated_at":   updated.UpdatedAt,
	})
}

type recordResultRequest struct {
	Score    int    `json:"score"`
	Won      bool   `json:"won,omitempty"`
	PlayedAt string `json:"played_at,omitempty"`
}

// handleRecordResult handles POST /api/v1/players/me/results
func (s *Server) handleRecordResult(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())

	var req recordResultRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload")
		return
	}
	if req.Score < 0 {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "score must be a non-negative integer")
		return
	}

	p, ok := s.playerForUser(w, r, claims.UserID)
	if !ok {
		return
	}

	cmd := command.RecordGameResultCommand{
		PlayerID:      p.ID,
		Score:         req.Score,
		Won:           req.Won,
		CorrelationID: getRequestID(r.Context()),
	}
	if req.PlayedAt != "" {
		playedAt, err := time.Parse(time.RFC3339, req.PlayedAt)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid_request", "played_at must be RFC 3339")
			return
		}
		cmd.PlayedAt = playedAt
	}

	result, err := s.deps.RecordGameResultHandler.Handle(r.Context(), cmd)
	if err != nil {
		s.writeDomainError(w, err, "Failed to record game result")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleRecordWin handles POST /api/v1/players/me/wins
func (s *Server) handleRecordWin(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())

	p, ok := s.playerForUser(w, r, claims.UserID)
	if !ok {
		return
	}

	result, err := s.deps.RecordWinHandler.Handle(r.Context(), command.RecordWinCommand{
		PlayerID:      p.ID,
		CorrelationID: getRequestID(r.Context()),
	})
	if err != nil {
		s.writeDomainError(w, err, "Failed to record win")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleGetPlayerStats handles GET /api/v1/players/{id}/stats
func (s *Server) handleGetPlayerStats(w http.ResponseWriter, r *http.Request) {
	playerID := r.PathValue("id")
	if playerID == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Player ID is required")
		return
	}

	stats, err := s.deps.GetPlayerStatsHandler.Handle(r.Context(), query.GetPlayerStatsQuery{
		PlayerID: playerID,
	})
	if err != nil {
		s.writeDomainError(w, err, "Failed to load player stats")
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// ══════════════════════════════════════════════════════════════════════════════
// LEADERBOARD & RANKINGS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleGetLeaderboard handles GET /api/v1/leaderboard
func (s *Server) handleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	q := query.GetLeaderboardQuery{
		SortBy: getQueryParam(r, "sort_by", ""),
		Limit:  getQueryParamInt(r, "limit", 20),
	}

	result, err := s.deps.GetLeaderboardHandler.Handle(r.Context(), q)
	if err != nil {
		s.writeDomainError(w, err, "Failed to get leaderboard")
		return
	}

	meta := &ResponseMeta{TotalCount: result.TotalCount}
	writeJSONWithMeta(w, r, http.StatusOK, result, meta)
}

// handleGetRankings handles GET /api/v1/rankings
func (s *Server) handleGetRankings(w http.ResponseWriter, r *http.Request) {
	q := query.GetRankingsQuery{
		SortBy:   getQueryParam(r, "sort_by", ""),
		PlayerID: getQueryParam(r, "player_id", ""),
	}

	result, err := s.deps.GetRankingsHandler.Handle(r.Context(), q)
	if err != nil {
		s.writeDomainError(w, err, "Failed to get rankings")
		return
	}

	meta := &ResponseMeta{TotalCount: len(result.Entries)}
	writeJSONWithMeta(w, r, http.StatusOK, result, meta)
}

// ══════════════════════════════════════════════════════════════════════════════
// OFFER HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleListOffers handles GET /api/v1/offers
func (s *Server) handleListOffers(w http.ResponseWriter, r *http.Request) {
	if !s.featureEnabled(r, featureOffers) {
		writeJSONError(w, http.StatusServiceUnavailable, "offers_disabled", "Offers are currently disabled")
		return
	}

	q := query.ListOffersQuery{
		View:      query.OfferView(getQueryParam(r, "view", "")),
		OfferType: getQueryParam(r, "type", ""),
		Limit:     getQueryParamInt(r, "limit", 0),
	}

	result, err := s.deps.ListOffersHandler.Handle(r.Context(), q)
	if err != nil {
		s.writeDomainError(w, err, "Failed to list offers")
		return
	}

	meta := &ResponseMeta{TotalCount: len(result.Offers)}
	writeJSONWithMeta(w, r, http.StatusOK, result, meta)
}

// handleHomeOffers handles GET /api/v1/offers/home
func (s *Server) handleHomeOffers(w http.ResponseWriter, r *http.Request) {
	if !s.featureEnabled(r, featureOffers) {
		writeJSONError(w, http.StatusServiceUnavailable, "offers_disabled", "Offers are currently disabled")
		return
	}

	result, err := s.deps.ListOffersHandler.HandleHome(r.Context())
	if err != nil {
		s.writeDomainError(w, err, "Failed to build offers feed")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// OFFER ADMINISTRATION HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

type offerRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
	ImagePath   string `json:"image_path,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	OfferType   string `json:"offer_type,omitempty"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	IsFeatured  bool   `json:"is_featured,omitempty"`
	IsExclusive bool   `json:"is_exclusive,omitempty"`
	Publish     bool   `json:"publish,omitempty"`
}

// adminOfferDTO is the offer representation returned to moderators.
type adminOfferDTO struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Color       string    `json:"color"`
	Image       string    `json:"image,omitempty"`
	OfferType   string    `json:"offer_type"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Status      string    `json:"status"`
	IsFeatured  bool      `json:"is_featured"`
	IsExclusive bool      `json:"is_exclusive"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toAdminOfferDTO(o *offer.Offer) adminOfferDTO {
	return adminOfferDTO{
		ID:          o.ID,
		Title:       o.Title,
		Description: o.Description,
		Color:       o.Color,
		Image:       o.DisplayImage(),
		OfferType:   string(o.OfferType),
		StartDate:   o.StartDate,
		EndDate:     o.EndDate,
		Status:      string(o.Status),
		IsFeatured:  o.IsFeatured,
		IsExclusive: o.IsExclusive,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

// handleCreateOffer handles POST /api/v1/admin/offers
func (s *Server) handleCreateOffer(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())

	var req offerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload")
		return
	}

	startDate, endDate, err := parseOfferDates(req.StartDate, req.EndDate)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	o, err := s.deps.ManageOfferHandler.CreateOffer(r.Context(), command.CreateOfferCommand{
		ActorID:     claims.UserID,
		Title:       req.Title,
		Description: req.Description,
		Color:       req.Color,
		ImagePath:   req.ImagePath,
		ImageURL:    req.ImageURL,
		OfferType:   req.OfferType,
		StartDate:   startDate,
		EndDate:     endDate,
		IsFeatured:  req.IsFeatured,
		IsExclusive: req.IsExclusive,
		Publish:     req.Publish,
	})
	if err != nil {
		s.writeDomainError(w, err, "Failed to create offer")
		return
	}

	writeJSON(w, http.StatusCreated, toAdminOfferDTO(o))
}

// handleUpdateOffer handles PUT /api/v1/admin/offers/{id}
func (s *Server) handleUpdateOffer(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())

	offerID := r.PathValue("id")
	if offerID == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Offer ID is required")
		return
	}

	var req offerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload")
		return
	}

	cmd := command.UpdateOfferCommand{
		ActorID:     claims.UserID,
		OfferID:     offerID,
		Title:       req.Title,
		Description: req.Description,
		Color:       req.Color,
		ImagePath:   req.ImagePath,
		ImageURL:    req.ImageURL,
		OfferType:   req.OfferType,
	}
	if req.StartDate != "" {
		start, err := parseDate(req.StartDate)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid_request", "start_date must be YYYY-MM-DD")
			return
		}
		cmd.StartDate = start
	}
	if req.EndDate != "" {
		end, err := parseDate(req.EndDate)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid_request", "end_date must be YYYY-MM-DD")
			return
		}
		cmd.EndDate = end
	}

	o, err := s.deps.ManageOfferHandler.UpdateOffer(r.Context(), cmd)
	if err != nil {
		s.writeDomainError(w, err, "Failed to update offer")
		return
	}

	writeJSON(w, http.StatusOK, toAdminOfferDTO(o))
}

// handleDeleteOffer handles DELETE /api/v1/admin/offers/{id}
func (s *Server) handleDeleteOffer(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())

	offerID := r.PathValue("id")
	if offerID == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Offer ID is required")
		return
	}

	if err := s.deps.ManageOfferHandler.DeleteOffer(r.Context(), command.OfferActionCommand{
		ActorID: claims.UserID,
		OfferID: offerID,
	}); err != nil {
		s.writeDomainError(w, err, "Failed to delete offer")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleOfferAction returns a handler for a single-offer status or flag change.
func (s *Server) handleOfferAction(action string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := claimsFromContext(r.Context())

		offerID := r.PathValue("id")
		if offerID == "" {
			writeJSONError(w, http.StatusBadRequest, "invalid_request", "Offer ID is required")
			return
		}

		cmd := command.OfferActionCommand{ActorID: claims.UserID, OfferID: offerID}

		var (
			o   *offer.Offer
			err error
		)
		switch action {
		case "activate":
			o, err = s.deps.ManageOfferHandler.ActivateOffer(r.Context(), cmd)
		case "deactivate":
			o, err = s.deps.ManageOfferHandler.DeactivateOffer(r.Context(), cmd)
		case "feature":
			o, err = s.deps.ManageOfferHandler.ToggleFeatured(r.Context(), cmd)
		case "exclusive":
			o, err = s.deps.ManageOfferHandler.ToggleExclusive(r.Context(), cmd)
		default:
			writeJSONError(w, http.StatusNotFound, "not_found", "Unknown offer action")
			return
		}
		if err != nil {
			s.writeDomainError(w, err, "Failed to apply offer action")
			return
		}

		writeJSON(w, http.StatusOK, toAdminOfferDTO(o))
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// FEATURE FLAGS & PARSING HELPERS
// ══════════════════════════════════════════════════════════════════════════════

type featureName string

const (
	featureRegistration featureName = appconfig.FeaturePlayerRegistration
	featureOffers       featureName = appconfig.FeatureOffers
)

// featureEnabled evaluates a feature flag for the requesting user.
// A server without flags configured treats every feature as enabled.
func (s *Server) featureEnabled(r *http.Request, name featureName) bool {
	if s.deps.Features == nil {
		return true
	}

	fctx := &appconfig.FeatureContext{}
	if claims := claimsFromContext(r.Context()); claims != nil {
		fctx.UserID = claims.UserID
		fctx.IsStaff = claims.IsModerator || claims.IsSuperuser
	}

	return s.deps.Features.IsEnabled(string(name), fctx)
}

// parseDate parses a YYYY-MM-DD date in the platform's reference timezone,
// so offer windows and birthdates line up with local wall-clock days.
func parseDate(value string) (time.Time, error) {
	return timeutil.ParseDateCairo(value)
}

// parseOfferDates parses the required start and end dates of an offer.
func parseOfferDates(start, end string) (time.Time, time.Time, error) {
	startDate, err := parseDate(start)
	if err != nil {
		return time.Time{}, time.Time{}, errInvalidDate("start_date")
	}
	endDate, err := parseDate(end)
	if err != nil {
		return time.Time{}, time.Time{}, errInvalidDate("end_date")
	}
	return startDate, endDate, nil
}

type errInvalidDate string

func (e errInvalidDate) Error() string {
	return string(e) + " must be YYYY-MM-DD"
}
