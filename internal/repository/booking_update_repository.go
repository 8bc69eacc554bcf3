package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/consultancy-service/internal/domain"
)

// BookingUpdateRepository encapsulates booking thread persistence.
type BookingUpdateRepository interface {
	Create(ctx context.Context, update *domain.BookingUpdate) error
	ListByBooking(ctx context.Context, bookingID string) ([]domain.BookingUpdate, error)
}

type bookingUpdateRepository struct {
	pool *pgxpool.Pool
}

// NewBookingUpdateRepository instantiates repository.
func NewBookingUpdateRepository(pool *pgxpool.Pool) BookingUpdateRepository {
	return &bookingUpdateRepository{pool: pool}
}

func (r *bookingUpdateRepository) Create(ctx context.Context, update *domain.BookingUpdate) error {
	const query = `
        INSERT INTO booking_updates (booking_id, author_id, author_role, body, is_internal)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		update.BookingID,
		update.AuthorID,
		update.AuthorRole,
		update.Body,
		update.IsInternal,
	).Scan(&update.ID, &update.CreatedAt)
}

func (r *bookingUpdateRepository) ListByBooking(ctx context.Context, bookingID string) ([]domain.BookingUpdate, error) {
	const query = `
        SELECT id, booking_id, author_id, author_role, body, is_internal, created_at
        FROM booking_updates WHERE booking_id=$1 ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.BookingUpdate
	for rows.Next() {
		var update domain.BookingUpdate
		if err := rows.Scan(
			&update.ID,
			&update.BookingID,
			&update.AuthorID,
			&update.AuthorRole,
			&update.Body,
			&update.IsInternal,
			&update.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, update)
	}
	return result, rows.Err()
}
