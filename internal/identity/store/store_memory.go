package store

import (
	"context"
	"sync"
	"time"

	"civicid/internal/identity/models"
)

// InMemoryUserStore keeps development and tests free of external
// infrastructure. One mutex guards the record map and the unique indexes so
// create-with-uniqueness stays atomic under concurrent registrations.
type InMemoryUserStore struct {
	mu       sync.RWMutex
	users    map[string]*models.User
	byEmail  map[string]string
	byCode   map[string]string
	byMobile map[string]string // citizen mobile -> id; uniqueness is kind-scoped
}

// NewInMemory builds an empty in-memory user store.
func NewInMemory() *InMemoryUserStore {
	return &InMemoryUserStore{
		users:    make(map[string]*models.User),
		byEmail:  make(map[string]string),
		byCode:   make(map[string]string),
		byMobile: make(map[string]string),
	}
}

func (s *InMemoryUserStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[user.Email]; exists {
		return &DuplicateError{Field: "email"}
	}
	if user.Org != nil {
		if _, exists := s.byCode[user.Org.Code]; exists {
			return &DuplicateError{Field: "code"}
		}
	}
	if user.Kind == models.KindCitizen && user.Citizen != nil {
		if _, exists := s.byMobile[user.Citizen.Mobile]; exists {
			return &DuplicateError{Field: "mobile"}
		}
	}

	s.users[user.ID] = clone(user)
	s.byEmail[user.Email] = user.ID
	if user.Org != nil {
		s.byCode[user.Org.Code] = user.ID
	}
	if user.Kind == models.KindCitizen && user.Citizen != nil {
		s.byMobile[user.Citizen.Mobile] = user.ID
	}
	return nil
}

func (s *InMemoryUserStore) FindByID(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if user, ok := s.users[id]; ok {
		return clone(user), nil
	}
	return nil, ErrNotFound
}

func (s *InMemoryUserStore) FindByLogin(_ context.Context, kind models.ActorKind, key string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var id string
	var ok bool
	if kind == models.KindCitizen {
		id, ok = s.byMobile[key]
	} else {
		id, ok = s.byCode[key]
	}
	if !ok {
		return nil, ErrNotFound
	}

	user := s.users[id]
	if user == nil || user.Kind != kind {
		return nil, ErrNotFound
	}
	return clone(user), nil
}

func (s *InMemoryUserStore) UpdateLastLogin(_ context.Context, id string, at time.Time) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	loginAt := at
	user.LastLoginAt = &loginAt
	user.UpdatedAt = at
	return clone(user), nil
}

func (s *InMemoryUserStore) UpdateSecretHash(_ context.Context, id, secretHash string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return ErrNotFound
	}
	user.SecretHash = secretHash
	user.UpdatedAt = at
	return nil
}

// clone copies the record and its profile so callers never alias store state.
func clone(user *models.User) *models.User {
	copied := *user
	if user.Citizen != nil {
		citizen := *user.Citizen
		copied.Citizen = &citizen
	}
	if user.Org != nil {
		org := *user.Org
		copied.Org = &org
	}
	if user.LastLoginAt != nil {
		at := *user.LastLoginAt
		copied.LastLoginAt = &at
	}
	return &copied
}
