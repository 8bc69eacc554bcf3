package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/consultancy-service/internal/domain"
)

// ProfileRepository encapsulates user profile persistence.
type ProfileRepository interface {
	Create(ctx context.Context, profile *domain.UserProfile) error
	Update(ctx context.Context, profile *domain.UserProfile) error
	GetByID(ctx context.Context, id string) (*domain.UserProfile, error)
	GetByUserID(ctx context.Context, userID string) (*domain.UserProfile, error)
}

type profileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository instantiates repository.
func NewProfileRepository(pool *pgxpool.Pool) ProfileRepository {
	return &profileRepository{pool: pool}
}

func (r *profileRepository) Create(ctx context.Context, profile *domain.UserProfile) error {
	const query = `
        INSERT INTO user_profiles (user_id, phone_number, city, education_level, bio, verification_status)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		profile.UserID,
		profile.PhoneNumber,
		profile.City,
		profile.EducationLevel,
		profile.Bio,
		profile.VerificationStatus,
	).Scan(&profile.ID, &profile.CreatedAt, &profile.UpdatedAt)
}

func (r *profileRepository) Update(ctx context.Context, profile *domain.UserProfile) error {
	const query = `
        UPDATE user_profiles SET phone_number=$1, city=$2, education_level=$3, bio=$4,
            verification_status=$5, verified_at=$6, updated_at=NOW()
        WHERE id=$7`
	cmd, err := r.pool.Exec(ctx, query,
		profile.PhoneNumber,
		profile.City,
		profile.EducationLevel,
		profile.Bio,
		profile.VerificationStatus,
		profile.VerifiedAt,
		profile.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *profileRepository) GetByID(ctx context.Context, id string) (*domain.UserProfile, error) {
	const query = `
        SELECT id, user_id, phone_number, city, education_level, bio, verification_status, verified_at, created_at, updated_at
        FROM user_profiles WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID string) (*domain.UserProfile, error) {
	const query = `
        SELECT id, user_id, phone_number, city, education_level, bio, verification_status, verified_at, created_at, updated_at
        FROM user_profiles WHERE user_id=$1`
	return r.fetchSingle(ctx, query, userID)
}

func (r *profileRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.UserProfile, error) {
	var profile domain.UserProfile
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.PhoneNumber,
		&profile.City,
		&profile.EducationLevel,
		&profile.Bio,
		&profile.VerificationStatus,
		&profile.VerifiedAt,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &profile, nil
}
