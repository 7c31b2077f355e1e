package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"devops-gateway/internal/domain"
)

// ErrProfileNotFound marks a lookup for a subject without a profile row.
var ErrProfileNotFound = errors.New("profile not found")

type ProfileRepository interface {
	Create(ctx context.Context, profile domain.Profile) error
	GetByID(ctx context.Context, id string) (domain.Profile, error)
	GetByEmail(ctx context.Context, email string) (domain.Profile, error)
}

type PgProfileRepository struct {
	pool *pgxpool.Pool
}

func NewPgProfileRepository(pool *pgxpool.Pool) *PgProfileRepository {
	return &PgProfileRepository{pool: pool}
}

func (r *PgProfileRepository) Create(ctx context.Context, profile domain.Profile) error {
	const query = `
		INSERT INTO profiles (id, email, full_name, role, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.pool.Exec(ctx, query,
		profile.ID,
		profile.Email,
		profile.FullName,
		profile.Role,
		profile.PasswordHash,
		profile.CreatedAt,
	)
	return err
}

func (r *PgProfileRepository) GetByID(ctx context.Context, id string) (domain.Profile, error) {
	return r.get(ctx, `WHERE id = $1`, id)
}

func (r *PgProfileRepository) GetByEmail(ctx context.Context, email string) (domain.Profile, error) {
	return r.get(ctx, `WHERE email = $1`, email)
}

func (r *PgProfileRepository) get(ctx context.Context, where, arg string) (domain.Profile, error) {
	query := `
		SELECT id, email, full_name, role, password_hash, created_at
		FROM profiles
	` + where

	var profile domain.Profile
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&profile.ID,
		&profile.Email,
		&profile.FullName,
		&profile.Role,
		&profile.PasswordHash,
		&profile.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Profile{}, ErrProfileNotFound
	}
	return profile, err
}
