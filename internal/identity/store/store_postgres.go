package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"civicid/internal/identity/models"
)

// PostgresUserStore persists identity records in PostgreSQL. Uniqueness is
// enforced by the indexes below, so racing registrations resolve to exactly
// one success without application-level locking.
type PostgresUserStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed user store.
func NewPostgres(db *sql.DB) *PostgresUserStore {
	return &PostgresUserStore{db: db}
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            UUID PRIMARY KEY,
	user_type     TEXT NOT NULL,
	name          TEXT NOT NULL,
	email         TEXT NOT NULL,
	secret_hash   TEXT NOT NULL,
	mobile        TEXT,
	aadhar        TEXT,
	org_code      TEXT,
	last_login_at TIMESTAMPTZ,
	created_at    TIMESTAMPTZ NOT NULL,
	updated_at    TIMESTAMPTZ NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS users_email_key ON users (email);
CREATE UNIQUE INDEX IF NOT EXISTS users_org_code_key ON users (org_code) WHERE org_code IS NOT NULL;
CREATE UNIQUE INDEX IF NOT EXISTS users_mobile_key ON users (mobile) WHERE user_type = 'citizen';
`

// EnsureSchema creates the users table and its unique indexes if missing.
func (s *PostgresUserStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure users schema: %w", err)
	}
	return nil
}

func (s *PostgresUserStore) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, user_type, name, email, secret_hash, mobile, aadhar, org_code, last_login_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	var mobile, aadhar, orgCode sql.NullString
	if user.Citizen != nil {
		mobile = sql.NullString{String: user.Citizen.Mobile, Valid: true}
		aadhar = sql.NullString{String: user.Citizen.NationalID, Valid: true}
	}
	if user.Org != nil {
		orgCode = sql.NullString{String: user.Org.Code, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, query,
		user.ID,
		string(user.Kind),
		user.Name,
		user.Email,
		user.SecretHash,
		mobile,
		aadhar,
		orgCode,
		user.LastLoginAt,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if dup := duplicateFromPQ(err); dup != nil {
			return dup
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *PostgresUserStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, selectUser+` WHERE id = $1`, id)
	return scanUser(row)
}

func (s *PostgresUserStore) FindByLogin(ctx context.Context, kind models.ActorKind, key string) (*models.User, error) {
	keyColumn := "org_code"
	if kind == models.KindCitizen {
		keyColumn = "mobile"
	}
	query := selectUser + ` WHERE user_type = $1 AND ` + keyColumn + ` = $2`
	row := s.db.QueryRowContext(ctx, query, string(kind), key)
	return scanUser(row)
}

func (s *PostgresUserStore) UpdateLastLogin(ctx context.Context, id string, at time.Time) (*models.User, error) {
	query := `
		UPDATE users SET last_login_at = $2, updated_at = $2
		WHERE id = $1
		RETURNING id, user_type, name, email, secret_hash, mobile, aadhar, org_code, last_login_at, created_at, updated_at
	`
	return scanUser(s.db.QueryRowContext(ctx, query, id, at))
}

func (s *PostgresUserStore) UpdateSecretHash(ctx context.Context, id, secretHash string, at time.Time) error {
	result, err := s.db.ExecContext(ctx, `UPDATE users SET secret_hash = $2, updated_at = $3 WHERE id = $1`, id, secretHash, at)
	if err != nil {
		return fmt.Errorf("update secret hash: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update secret hash: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

const selectUser = `
	SELECT id, user_type, name, email, secret_hash, mobile, aadhar, org_code, last_login_at, created_at, updated_at
	FROM users
`

func scanUser(row *sql.Row) (*models.User, error) {
	var user models.User
	var kind string
	var mobile, aadhar, orgCode sql.NullString
	var lastLogin sql.NullTime
	err := row.Scan(
		&user.ID,
		&kind,
		&user.Name,
		&user.Email,
		&user.SecretHash,
		&mobile,
		&aadhar,
		&orgCode,
		&lastLogin,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}

	user.Kind = models.ActorKind(kind)
	if user.Kind == models.KindCitizen {
		user.Citizen = &models.CitizenProfile{Mobile: mobile.String, NationalID: aadhar.String}
	} else if orgCode.Valid {
		user.Org = &models.OrgProfile{Code: orgCode.String}
	}
	if lastLogin.Valid {
		at := lastLogin.Time
		user.LastLoginAt = &at
	}
	return &user, nil
}

// duplicateFromPQ maps a unique-violation (23505) to the colliding field by
// constraint name. Other errors pass through untouched.
func duplicateFromPQ(err error) *DuplicateError {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != "23505" {
		return nil
	}
	switch pqErr.Constraint {
	case "users_email_key":
		return &DuplicateError{Field: "email"}
	case "users_org_code_key":
		return &DuplicateError{Field: "code"}
	case "users_mobile_key":
		return &DuplicateError{Field: "mobile"}
	default:
		return &DuplicateError{Field: "record"}
	}
}
