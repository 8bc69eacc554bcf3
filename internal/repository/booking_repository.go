package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/consultancy-service/internal/domain"
)

// ErrWindowFull is returned by CreateReserved when the compare-and-set on
// the window's booked_count finds no free slot.
var ErrWindowFull = errors.New("availability window full")

// BookingFilter captures booking search parameters.
type BookingFilter struct {
	UserID          *string
	ServiceID       *string
	WindowID        *string
	AssignedStaffID *string
	Statuses        []domain.BookingStatus
	CreatedFrom     *time.Time
	CreatedTo       *time.Time
	Limit           int
	Offset          int
}

// BookingRepository encapsulates booking persistence.
type BookingRepository interface {
	// CreateReserved atomically reserves a slot in the booking's window and
	// inserts the booking. Under concurrent calls at most window.Capacity
	// bookings ever hold a slot.
	CreateReserved(ctx context.Context, booking *domain.Booking) error
	Update(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	GetByReferenceKey(ctx context.Context, key string) (*domain.Booking, error)
	ListWithFilter(ctx context.Context, filter BookingFilter) ([]domain.Booking, error)
}

type bookingRepository struct {
	pool *pgxpool.Pool
}

// NewBookingRepository instantiates repository.
func NewBookingRepository(pool *pgxpool.Pool) BookingRepository {
	return &bookingRepository{pool: pool}
}

func (r *bookingRepository) CreateReserved(ctx context.Context, booking *domain.Booking) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const reserve = `
        UPDATE availability_windows SET booked_count = booked_count + 1, updated_at=NOW()
        WHERE id=$1 AND booked_count < capacity`
	cmd, err := tx.Exec(ctx, reserve, booking.WindowID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrWindowFull
	}

	const insert = `
        INSERT INTO bookings (reference_key, user_id, service_id, window_id, requested_time, message,
            status, assigned_staff_id, quoted_price, admin_notes)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING id, created_at, updated_at`
	if err := tx.QueryRow(ctx, insert,
		booking.ReferenceKey,
		booking.UserID,
		booking.ServiceID,
		booking.WindowID,
		booking.RequestedTime,
		booking.Message,
		booking.Status,
		booking.AssignedStaffID,
		booking.QuotedPrice,
		booking.AdminNotes,
	).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *bookingRepository) Update(ctx context.Context, booking *domain.Booking) error {
	const query = `
        UPDATE bookings SET status=$1, assigned_staff_id=$2, quoted_price=$3, admin_notes=$4,
            confirmed_at=$5, completed_at=$6, updated_at=NOW()
        WHERE id=$7`
	cmd, err := r.pool.Exec(ctx, query,
		booking.Status,
		booking.AssignedStaffID,
		booking.QuotedPrice,
		booking.AdminNotes,
		booking.ConfirmedAt,
		booking.CompletedAt,
		booking.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	const query = bookingSelect + ` WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *bookingRepository) GetByReferenceKey(ctx context.Context, key string) (*domain.Booking, error) {
	const query = bookingSelect + ` WHERE reference_key=$1`
	return r.fetchSingle(ctx, query, key)
}

func (r *bookingRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Booking, error) {
	var booking domain.Booking
	if err := r.pool.QueryRow(ctx, query, arg).Scan(bookingFields(&booking)...); err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) ListWithFilter(ctx context.Context, filter BookingFilter) ([]domain.Booking, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		clauses = append(clauses, fmt.Sprintf("user_id=$%d", len(args)))
	}
	if filter.ServiceID != nil {
		args = append(args, *filter.ServiceID)
		clauses = append(clauses, fmt.Sprintf("service_id=$%d", len(args)))
	}
	if filter.WindowID != nil {
		args = append(args, *filter.WindowID)
		clauses = append(clauses, fmt.Sprintf("window_id=$%d", len(args)))
	}
	if filter.AssignedStaffID != nil {
		args = append(args, *filter.AssignedStaffID)
		clauses = append(clauses, fmt.Sprintf("assigned_staff_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		clauses = append(clauses, fmt.Sprintf("created_at <= $%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY updated_at DESC LIMIT %d OFFSET %d`,
		bookingSelect, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Booking
	for rows.Next() {
		var booking domain.Booking
		if err := rows.Scan(bookingFields(&booking)...); err != nil {
			return nil, err
		}
		result = append(result, booking)
	}
	return result, rows.Err()
}

const bookingSelect = `
        SELECT id, reference_key, user_id, service_id, window_id, requested_time, message, status,
               assigned_staff_id, quoted_price, admin_notes, confirmed_at, completed_at, created_at, updated_at
        FROM bookings`

func bookingFields(booking *domain.Booking) []any {
	return []any{
		&booking.ID,
		&booking.ReferenceKey,
		&booking.UserID,
		&booking.ServiceID,
		&booking.WindowID,
		&booking.RequestedTime,
		&booking.Message,
		&booking.Status,
		&booking.AssignedStaffID,
		&booking.QuotedPrice,
		&booking.AdminNotes,
		&booking.ConfirmedAt,
		&booking.CompletedAt,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	}
}
