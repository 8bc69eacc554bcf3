package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/consultancy-service/internal/domain"
)

// WindowRepository encapsulates availability window persistence.
type WindowRepository interface {
	Create(ctx context.Context, window *domain.AvailabilityWindow) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.AvailabilityWindow, error)
	ListByService(ctx context.Context, serviceID string) ([]domain.AvailabilityWindow, error)
	FindContaining(ctx context.Context, serviceID string, t time.Time) (*domain.AvailabilityWindow, error)
	Release(ctx context.Context, id string) error
}

type windowRepository struct {
	pool *pgxpool.Pool
}

// NewWindowRepository instantiates repository.
func NewWindowRepository(pool *pgxpool.Pool) WindowRepository {
	return &windowRepository{pool: pool}
}

func (r *windowRepository) Create(ctx context.Context, window *domain.AvailabilityWindow) error {
	const query = `
        INSERT INTO availability_windows (service_id, starts_at, ends_at, capacity, booked_count)
        VALUES ($1,$2,$3,$4,0)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		window.ServiceID,
		window.StartsAt,
		window.EndsAt,
		window.Capacity,
	).Scan(&window.ID, &window.CreatedAt, &window.UpdatedAt)
}

func (r *windowRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM availability_windows WHERE id=$1 AND booked_count=0`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *windowRepository) GetByID(ctx context.Context, id string) (*domain.AvailabilityWindow, error) {
	const query = windowSelect + ` WHERE id=$1`
	var window domain.AvailabilityWindow
	if err := r.pool.QueryRow(ctx, query, id).Scan(windowFields(&window)...); err != nil {
		return nil, err
	}
	return &window, nil
}

func (r *windowRepository) ListByService(ctx context.Context, serviceID string) ([]domain.AvailabilityWindow, error) {
	const query = windowSelect + ` WHERE service_id=$1 ORDER BY starts_at`
	rows, err := r.pool.Query(ctx, query, serviceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.AvailabilityWindow
	for rows.Next() {
		var window domain.AvailabilityWindow
		if err := rows.Scan(windowFields(&window)...); err != nil {
			return nil, err
		}
		result = append(result, window)
	}
	return result, rows.Err()
}

// FindContaining returns the window covering t, or pgx.ErrNoRows. Windows
// per service never overlap, so at most one row matches.
func (r *windowRepository) FindContaining(ctx context.Context, serviceID string, t time.Time) (*domain.AvailabilityWindow, error) {
	const query = windowSelect + ` WHERE service_id=$1 AND starts_at <= $2 AND ends_at > $2`
	var window domain.AvailabilityWindow
	if err := r.pool.QueryRow(ctx, query, serviceID, t).Scan(windowFields(&window)...); err != nil {
		return nil, err
	}
	return &window, nil
}

// Release frees one booked slot after a cancellation or rejection.
func (r *windowRepository) Release(ctx context.Context, id string) error {
	const query = `
        UPDATE availability_windows SET booked_count = booked_count - 1, updated_at=NOW()
        WHERE id=$1 AND booked_count > 0`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

const windowSelect = `
        SELECT id, service_id, starts_at, ends_at, capacity, booked_count, created_at, updated_at
        FROM availability_windows`

func windowFields(window *domain.AvailabilityWindow) []any {
	return []any{
		&window.ID,
		&window.ServiceID,
		&window.StartsAt,
		&window.EndsAt,
		&window.Capacity,
		&window.BookedCount,
		&window.CreatedAt,
		&window.UpdatedAt,
	}
}
