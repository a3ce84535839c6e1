// Package store persists identity records. Implementations are pure I/O;
// validation and credential rules live in the service layer.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"civicid/internal/identity/models"
)

var (
	// ErrNotFound keeps storage-level 404s consistent across the in-memory
	// and PostgreSQL implementations.
	ErrNotFound = errors.New("record not found")
)

// DuplicateError reports which unique identifier an insert collided on, so
// the service can surface a conflict naming the field instead of a generic
// failure.
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate %s", e.Field)
}

// DuplicateField extracts the colliding field name from err, if any.
func DuplicateField(err error) (string, bool) {
	var dup *DuplicateError
	if errors.As(err, &dup) {
		return dup.Field, true
	}
	return "", false
}

// UserStore is the single shared resource of the service. Create must be
// atomic with its uniqueness checks (concurrent duplicates yield exactly one
// success), and the update operations are atomic read-modify-writes.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByLogin(ctx context.Context, kind models.ActorKind, key string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id string, at time.Time) (*models.User, error)
	UpdateSecretHash(ctx context.Context, id, secretHash string, at time.Time) error
}
