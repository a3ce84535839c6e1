package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"civicid/internal/identity/models"
)

type InMemoryUserStoreSuite struct {
	suite.Suite
	store *InMemoryUserStore
}

func TestInMemoryUserStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryUserStoreSuite))
}

func (s *InMemoryUserStoreSuite) SetupTest() {
	s.store = NewInMemory()
}

func newCitizen(email, mobile string) *models.User {
	now := time.Now().UTC()
	return &models.User{
		ID:         uuid.NewString(),
		Kind:       models.KindCitizen,
		Name:       "A B",
		Email:      email,
		SecretHash: "hash",
		Citizen:    &models.CitizenProfile{Mobile: mobile, NationalID: "123456789012"},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func newOrg(kind models.ActorKind, email, code string) *models.User {
	now := time.Now().UTC()
	return &models.User{
		ID:         uuid.NewString(),
		Kind:       kind,
		Name:       "Org User",
		Email:      email,
		SecretHash: "hash",
		Org:        &models.OrgProfile{Code: code},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func (s *InMemoryUserStoreSuite) TestLookupBehavior() {
	ctx := context.Background()

	s.Run("finds citizen by mobile", func() {
		user := newCitizen("a@b.com", "9876543210")
		s.Require().NoError(s.store.Create(ctx, user))

		found, err := s.store.FindByLogin(ctx, models.KindCitizen, "9876543210")
		s.Require().NoError(err)
		s.Equal(user.ID, found.ID)
	})

	s.Run("finds official by code", func() {
		user := newOrg(models.KindOfficial, "o@gov.example", "12345")
		s.Require().NoError(s.store.Create(ctx, user))

		found, err := s.store.FindByLogin(ctx, models.KindOfficial, "12345")
		s.Require().NoError(err)
		s.Equal(user.ID, found.ID)
	})

	s.Run("kind must match the record", func() {
		user := newOrg(models.KindNGO, "n@ngo.example", "54321")
		s.Require().NoError(s.store.Create(ctx, user))

		_, err := s.store.FindByLogin(ctx, models.KindOfficial, "54321")
		s.Require().ErrorIs(err, ErrNotFound)
	})

	s.Run("returns ErrNotFound for unknown id", func() {
		_, err := s.store.FindByID(ctx, uuid.NewString())
		s.Require().ErrorIs(err, ErrNotFound)
	})

	s.Run("returns copies, not aliases", func() {
		user := newCitizen("copy@b.com", "1111111111")
		s.Require().NoError(s.store.Create(ctx, user))

		found, err := s.store.FindByID(ctx, user.ID)
		s.Require().NoError(err)
		found.Citizen.Mobile = "mutated"

		again, err := s.store.FindByID(ctx, user.ID)
		s.Require().NoError(err)
		s.Equal("1111111111", again.Citizen.Mobile)
	})
}

func (s *InMemoryUserStoreSuite) TestUniqueness() {
	ctx := context.Background()

	s.Run("duplicate email", func() {
		s.Require().NoError(s.store.Create(ctx, newCitizen("dup@b.com", "1000000001")))

		err := s.store.Create(ctx, newCitizen("dup@b.com", "1000000002"))
		field, ok := DuplicateField(err)
		s.Require().True(ok)
		s.Equal("email", field)
	})

	s.Run("duplicate code across official and ngo", func() {
		s.Require().NoError(s.store.Create(ctx, newOrg(models.KindOfficial, "a@gov.example", "77777")))

		err := s.store.Create(ctx, newOrg(models.KindNGO, "b@ngo.example", "77777"))
		field, ok := DuplicateField(err)
		s.Require().True(ok)
		s.Equal("code", field)
	})

	s.Run("duplicate citizen mobile", func() {
		s.Require().NoError(s.store.Create(ctx, newCitizen("m1@b.com", "2000000000")))

		err := s.store.Create(ctx, newCitizen("m2@b.com", "2000000000"))
		field, ok := DuplicateField(err)
		s.Require().True(ok)
		s.Equal("mobile", field)
	})

	s.Run("failed create leaves no partial record", func() {
		s.Require().NoError(s.store.Create(ctx, newCitizen("whole@b.com", "3000000000")))

		dup := newCitizen("other@b.com", "3000000000")
		s.Require().Error(s.store.Create(ctx, dup))

		_, err := s.store.FindByID(ctx, dup.ID)
		s.Require().ErrorIs(err, ErrNotFound)
	})
}

// TestConcurrentDuplicateRegistrations verifies that racing creates on the
// same email yield exactly one success.
func (s *InMemoryUserStoreSuite) TestConcurrentDuplicateRegistrations() {
	ctx := context.Background()
	const goroutines = 32

	var wg sync.WaitGroup
	results := make(chan error, goroutines)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			user := newOrg(models.KindOfficial, "race@gov.example", uuid.NewString()[:5])
			results <- s.store.Create(ctx, user)
		}()
	}
	wg.Wait()
	close(results)

	var successes, conflicts int
	for err := range results {
		if err == nil {
			successes++
			continue
		}
		if _, ok := DuplicateField(err); ok {
			conflicts++
		}
	}
	s.Equal(1, successes)
	s.Equal(goroutines-1, conflicts)
}

func (s *InMemoryUserStoreSuite) TestUpdates() {
	ctx := context.Background()

	s.Run("update last login sets timestamp and bumps updatedAt", func() {
		user := newCitizen("login@b.com", "4000000000")
		s.Require().NoError(s.store.Create(ctx, user))

		at := time.Now().UTC().Truncate(time.Second)
		updated, err := s.store.UpdateLastLogin(ctx, user.ID, at)
		s.Require().NoError(err)
		s.Require().NotNil(updated.LastLoginAt)
		s.Equal(at, *updated.LastLoginAt)
		s.Equal(at, updated.UpdatedAt)
	})

	s.Run("update secret hash", func() {
		user := newCitizen("rotate@b.com", "5000000000")
		s.Require().NoError(s.store.Create(ctx, user))

		at := time.Now().UTC()
		s.Require().NoError(s.store.UpdateSecretHash(ctx, user.ID, "new-hash", at))

		found, err := s.store.FindByID(ctx, user.ID)
		s.Require().NoError(err)
		s.Equal("new-hash", found.SecretHash)
	})

	s.Run("updates on missing records return ErrNotFound", func() {
		_, err := s.store.UpdateLastLogin(ctx, uuid.NewString(), time.Now())
		s.Require().ErrorIs(err, ErrNotFound)
		s.Require().ErrorIs(s.store.UpdateSecretHash(ctx, uuid.NewString(), "h", time.Now()), ErrNotFound)
	})
}
