package httptransport

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"civicid/internal/identity/device"
	"civicid/internal/identity/models"
	"civicid/internal/platform/middleware"
	dErrors "civicid/pkg/domain-errors"
)

// IdentityService is the boundary the transport layer depends on.
type IdentityService interface {
	Register(ctx context.Context, in models.RegistrationInput) (*models.AuthResult, error)
	Login(ctx context.Context, kind models.ActorKind, in models.LoginInput) (*models.AuthResult, error)
	Profile(ctx context.Context, userID string) (models.UserView, error)
	ChangePassword(ctx context.Context, userID string, in models.ChangePasswordInput) error
}

//go:generate mockgen -source=handlers_auth.go -destination=mocks/auth_mocks.go -package=mocks IdentityService

// AuthHandler exposes registration and authentication over HTTP. It delegates
// to the identity service without embedding business logic.
type AuthHandler struct {
	identity IdentityService
	logger   *slog.Logger
}

func NewAuthHandler(identity IdentityService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{identity: identity, logger: logger}
}

func (h *AuthHandler) handleSignup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var in models.RegistrationInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	result, err := h.identity.Register(ctx, in)
	if err != nil {
		h.logFailure(ctx, "signup failed", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// An unknown kind gets the same generic rejection as bad credentials so
	// the path parameter cannot be used to probe the kind taxonomy.
	kind, ok := models.ParseActorKind(chi.URLParam(r, "userType"))
	if !ok {
		writeError(w, dErrors.New(dErrors.CodeUnauthorized, "Invalid credentials"))
		return
	}

	var in models.LoginInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	result, err := h.identity.Login(ctx, kind, in)
	if err != nil {
		h.logFailure(ctx, "login failed", err)
		writeError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "login succeeded",
		"user_id", result.User.ID,
		"user_type", string(kind),
		"device", device.ParseUserAgent(r.UserAgent()),
		"request_id", middleware.GetRequestID(ctx),
	)
	writeJSON(w, http.StatusOK, result)
}

func (h *AuthHandler) handleProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		// Unreachable when RequireAuth is mounted; kept as a guard.
		writeError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	view, err := h.identity.Profile(ctx, userID)
	if err != nil {
		h.logFailure(ctx, "profile lookup failed", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

func (h *AuthHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	// Tokens are stateless; logout acknowledges and lets expiry do the rest.
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

func (h *AuthHandler) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		writeError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	var in models.ChangePasswordInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	if err := h.identity.ChangePassword(ctx, userID, in); err != nil {
		h.logFailure(ctx, "password change failed", err)
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// logFailure keeps client-caused failures at warn and operational ones at
// error, with detail staying in the logs rather than the response.
func (h *AuthHandler) logFailure(ctx context.Context, msg string, err error) {
	code := dErrors.CodeOf(err)
	if code == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, msg,
			"error", err.Error(),
			"request_id", middleware.GetRequestID(ctx),
		)
		return
	}
	h.logger.WarnContext(ctx, msg,
		"code", string(code),
		"request_id", middleware.GetRequestID(ctx),
	)
}
