// Package service holds the registration and authentication rules. Transport
// and storage concerns live in other layers; this package orchestrates them.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"civicid/internal/identity/models"
	"civicid/internal/identity/store"
	"civicid/internal/platform/metrics"
	dErrors "civicid/pkg/domain-errors"
)

// Hasher is the one-way credential transform.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// TokenIssuer mints access tokens bound to a user ID.
type TokenIssuer interface {
	GenerateAccessToken(userID string) (string, error)
}

// errInvalidCredentials is shared by the missing-record and wrong-password
// paths so responses never reveal which half of the pair was wrong.
var errInvalidCredentials = dErrors.New(dErrors.CodeUnauthorized, "Invalid credentials")

// Service implements the identity operations behind the HTTP handlers.
type Service struct {
	users   store.UserStore
	hasher  Hasher
	tokens  TokenIssuer
	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// New wires the identity service. metrics may be nil in tests.
func New(users store.UserStore, hasher Hasher, tokens TokenIssuer, logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{
		users:   users,
		hasher:  hasher,
		tokens:  tokens,
		logger:  logger,
		metrics: m,
		now:     time.Now,
	}
}

// WithClock overrides the service clock for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Register validates the signup payload, hashes the password, persists the
// record, and issues a token. The plaintext password is not retained on the
// record and never logged.
func (s *Service) Register(ctx context.Context, in models.RegistrationInput) (*models.AuthResult, error) {
	if fieldErrs := models.ValidateRegistration(in); len(fieldErrs) > 0 {
		return nil, models.ValidationError(fieldErrs)
	}
	kind, _ := models.ParseActorKind(in.Kind)

	secretHash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	user := &models.User{
		ID:         uuid.NewString(),
		Kind:       kind,
		Name:       strings.TrimSpace(in.Name),
		Email:      strings.ToLower(strings.TrimSpace(in.Email)),
		SecretHash: secretHash,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	switch kind {
	case models.KindCitizen:
		user.Citizen = &models.CitizenProfile{Mobile: in.Mobile, NationalID: in.NationalID}
	case models.KindOfficial, models.KindNGO:
		user.Org = &models.OrgProfile{Code: in.Code}
	}

	if err := s.users.Create(ctx, user); err != nil {
		if field, ok := store.DuplicateField(err); ok {
			return nil, conflictError(field)
		}
		s.logger.ErrorContext(ctx, "failed to create user", "error", err)
		return nil, fmt.Errorf("register: %w", err)
	}

	token, err := s.tokens.GenerateAccessToken(user.ID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to issue token", "error", err, "user_id", user.ID)
		return nil, fmt.Errorf("register: %w", err)
	}

	s.metrics.IncRegistered(string(kind))
	s.logger.InfoContext(ctx, "user registered", "user_id", user.ID, "user_type", string(kind))
	return &models.AuthResult{User: user.View(), Token: token}, nil
}

// Login authenticates by actor kind and kind-appropriate key: the mobile
// number for citizens, the organization code for officials and NGOs. The
// national ID is deliberately not accepted as an alternate citizen key.
func (s *Service) Login(ctx context.Context, kind models.ActorKind, in models.LoginInput) (*models.AuthResult, error) {
	key := in.Code
	if kind == models.KindCitizen {
		key = in.Mobile
	}
	if key == "" || in.Password == "" {
		s.metrics.IncAuthFailure("missing_credentials")
		return nil, errInvalidCredentials
	}

	user, err := s.users.FindByLogin(ctx, kind, key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.metrics.IncAuthFailure("unknown_identifier")
			return nil, errInvalidCredentials
		}
		s.logger.ErrorContext(ctx, "login lookup failed", "error", err)
		return nil, fmt.Errorf("login: %w", err)
	}

	if !s.hasher.Verify(in.Password, user.SecretHash) {
		s.metrics.IncAuthFailure("bad_password")
		return nil, errInvalidCredentials
	}

	updated, err := s.users.UpdateLastLogin(ctx, user.ID, s.now().UTC())
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to record login time", "error", err, "user_id", user.ID)
		return nil, fmt.Errorf("login: %w", err)
	}

	token, err := s.tokens.GenerateAccessToken(updated.ID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to issue token", "error", err, "user_id", updated.ID)
		return nil, fmt.Errorf("login: %w", err)
	}

	s.metrics.IncLogin(string(kind))
	return &models.AuthResult{User: updated.View(), Token: token}, nil
}

// Profile returns the caller's own sanitized record.
func (s *Service) Profile(ctx context.Context, userID string) (models.UserView, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.UserView{}, dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		s.logger.ErrorContext(ctx, "profile lookup failed", "error", err)
		return models.UserView{}, fmt.Errorf("profile: %w", err)
	}
	return user.View(), nil
}

// ChangePassword verifies the current password and always re-hashes the new
// one; there is no dirty-flag shortcut.
func (s *Service) ChangePassword(ctx context.Context, userID string, in models.ChangePasswordInput) error {
	if len(in.NewPassword) < 6 {
		return dErrors.New(dErrors.CodeInvalidInput, "Password must be at least 6 characters long")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		s.logger.ErrorContext(ctx, "change password lookup failed", "error", err)
		return fmt.Errorf("change password: %w", err)
	}

	if !s.hasher.Verify(in.CurrentPassword, user.SecretHash) {
		s.metrics.IncAuthFailure("bad_password")
		return errInvalidCredentials
	}

	secretHash, err := s.hasher.Hash(in.NewPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdateSecretHash(ctx, user.ID, secretHash, s.now().UTC()); err != nil {
		s.logger.ErrorContext(ctx, "failed to update secret hash", "error", err, "user_id", user.ID)
		return fmt.Errorf("change password: %w", err)
	}

	s.logger.InfoContext(ctx, "password changed", "user_id", user.ID)
	return nil
}

func conflictError(field string) error {
	switch field {
	case "email":
		return dErrors.New(dErrors.CodeConflict, "Email is already registered. Please use a different email.")
	case "code":
		return dErrors.New(dErrors.CodeConflict, "Organization code is already registered. Please use a different code.")
	case "mobile":
		return dErrors.New(dErrors.CodeConflict, "Mobile number is already registered. Please use a different mobile.")
	default:
		return dErrors.New(dErrors.CodeConflict, "Account already exists.")
	}
}
