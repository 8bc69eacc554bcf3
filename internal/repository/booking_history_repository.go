package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/consultancy-service/internal/domain"
)

// BookingHistoryRepository persists immutable audit entries.
type BookingHistoryRepository interface {
	Create(ctx context.Context, entry *domain.BookingHistory) error
	ListByBooking(ctx context.Context, bookingID string, limit, offset int) ([]domain.BookingHistory, error)
}

type bookingHistoryRepository struct {
	pool *pgxpool.Pool
}

// NewBookingHistoryRepository instantiates repository.
func NewBookingHistoryRepository(pool *pgxpool.Pool) BookingHistoryRepository {
	return &bookingHistoryRepository{pool: pool}
}

func (r *bookingHistoryRepository) Create(ctx context.Context, entry *domain.BookingHistory) error {
	oldValue, err := json.Marshal(entry.OldValue)
	if err != nil {
		return err
	}
	newValue, err := json.Marshal(entry.NewValue)
	if err != nil {
		return err
	}
	const query = `
        INSERT INTO booking_history (booking_id, changed_by, change_type, old_value, new_value)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		entry.BookingID,
		entry.ChangedByID,
		entry.ChangeType,
		oldValue,
		newValue,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (r *bookingHistoryRepository) ListByBooking(ctx context.Context, bookingID string, limit, offset int) ([]domain.BookingHistory, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
        SELECT id, booking_id, changed_by, change_type, old_value, new_value, created_at
        FROM booking_history WHERE booking_id=$1 ORDER BY created_at LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, query, bookingID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.BookingHistory
	for rows.Next() {
		var entry domain.BookingHistory
		var oldValue, newValue []byte
		if err := rows.Scan(
			&entry.ID,
			&entry.BookingID,
			&entry.ChangedByID,
			&entry.ChangeType,
			&oldValue,
			&newValue,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(oldValue, &entry.OldValue); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(newValue, &entry.NewValue); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
