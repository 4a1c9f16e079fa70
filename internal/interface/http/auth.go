package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/playzo/playzo-backend/internal/application/command"
	"github.com/playzo/playzo-backend/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// AUTH MIDDLEWARE
// ══════════════════════════════════════════════════════════════════════════════

const contextKeyClaims contextKey = "token_claims"

// claimsFromContext returns the verified token claims, or nil outside the
// auth middleware.
func claimsFromContext(ctx context.Context) *user.TokenClaims {
	claims, _ := ctx.Value(contextKeyClaims).(*user.TokenClaims)
	return claims
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

// requireAuth verifies the access token and stores its claims in the request
// context.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Bearer token is required")
			return
		}

		claims, err := s.deps.Tokens.VerifyAccess(token)
		if err != nil {
			writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Token is invalid or expired")
			return
		}

		ctx := context.WithValue(r.Context(), contextKeyClaims, claims)
		next(w, r.WithContext(ctx))
	}
}

// requireModerator is requireAuth plus a staff check.
func (s *Server) requireModerator(next http.HandlerFunc) http.HandlerFunc {
	return s.requireAuth(func(w http.ResponseWriter, r *http.Request) {
		claims := claimsFromContext(r.Context())
		if claims == nil || (!claims.IsModerator && !claims.IsSuperuser) {
			writeJSONError(w, http.StatusForbidden, "forbidden", "Moderator privileges required")
			return
		}
		next(w, r)
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// AUTH HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

type registerRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
	Gender      string `json:"gender,omitempty"`
	Birthdate   string `json:"birthdate,omitempty"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Address     string `json:"address,omitempty"`
	PhotoURL    string `json:"photo_url,omitempty"`
}

// handleRegister handles POST /api/v1/auth/register
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if !s.featureEnabled(r, featureRegistration) {
		writeJSONError(w, http.StatusServiceUnavailable, "registration_closed", "Registration is currently closed")
		return
	}

	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload")
		return
	}
	if req.Username == "" || req.Password == "" || req.DisplayName == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "username, password and display_name are required")
		return
	}

	cmd := command.RegisterPlayerCommand{
		Username:      req.Username,
		Password:      req.Password,
		DisplayName:   req.DisplayName,
		Gender:        req.Gender,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
		PhotoURL:      req.PhotoURL,
		CorrelationID: getRequestID(r.Context()),
	}
	if req.Birthdate != "" {
		birthdate, err := parseDate(req.Birthdate)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid_request", "birthdate must be YYYY-MM-DD")
			return
		}
		cmd.Birthdate = &birthdate
	}

	result, err := s.deps.RegisterPlayerHandler.Handle(r.Context(), cmd)
	if err != nil {
		s.writeDomainError(w, err, "Failed to register player")
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// tokenResponse carries an issued token pair alongside account info.
type tokenResponse struct {
	UserID       string `json:"user_id"`
	Username     string `json:"username"`
	IsModerator  bool   `json:"is_moderator"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    string `json:"expires_at"`
}

func toTokenResponse(result *command.LoginResult) tokenResponse {
	return tokenResponse{
		UserID:       result.UserID,
		Username:     result.Username,
		IsModerator:  result.IsModerator,
		AccessToken:  result.Tokens.AccessToken,
		RefreshToken: result.Tokens.RefreshToken,
		ExpiresAt:    result.Tokens.AccessExpiresAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

// handleLogin handles POST /api/v1/auth/login
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload")
		return
	}

	result, err := s.deps.LoginHandler.Handle(r.Context(), command.LoginCommand{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		s.writeDomainError(w, err, "Failed to log in")
		return
	}

	writeJSON(w, http.StatusOK, toTokenResponse(result))
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// handleRefresh handles POST /api/v1/auth/refresh
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload")
		return
	}

	result, err := s.deps.RefreshTokenHandler.Handle(r.Context(), command.RefreshTokenCommand{
		RefreshToken: req.RefreshToken,
	})
	if err != nil {
		s.writeDomainError(w, err, "Failed to refresh tokens")
		return
	}

	writeJSON(w, http.StatusOK, toTokenResponse(result))
}

// handleLogout handles POST /api/v1/auth/logout
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload")
		return
	}

	if err := s.deps.LogoutHandler.Handle(r.Context(), command.LogoutCommand{
		RefreshToken: req.RefreshToken,
	}); err != nil {
		s.writeDomainError(w, err, "Failed to log out")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// handleChangePassword handles POST /api/v1/auth/password
func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())

	var req changePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload")
		return
	}

	if err := s.deps.ChangePasswordHandler.Handle(r.Context(), command.ChangePasswordCommand{
		UserID:          claims.UserID,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	}); err != nil {
		s.writeDomainError(w, err, "Failed to change password")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "password_changed"})
}

// handleVerify handles GET /api/v1/auth/verify
// It echoes the verified claims so clients can validate stored tokens.
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user_id":      claims.UserID,
		"username":     claims.Username,
		"is_moderator": claims.IsModerator,
		"expires_at":   claims.ExpiresAt.UTC(),
	})
}
