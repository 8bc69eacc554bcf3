package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/consultancy-service/internal/domain"
)

// ServiceFilter captures catalog listing parameters.
type ServiceFilter struct {
	CategoryID   *string
	ActiveOnly   bool
	FeaturedOnly bool
	Visibility   *domain.Visibility
	Limit        int
	Offset       int
}

// CatalogRepository encapsulates category and service persistence.
type CatalogRepository interface {
	CreateCategory(ctx context.Context, category *domain.ServiceCategory) error
	UpdateCategory(ctx context.Context, category *domain.ServiceCategory) error
	GetCategoryByID(ctx context.Context, id string) (*domain.ServiceCategory, error)
	ListCategories(ctx context.Context, activeOnly bool) ([]domain.ServiceCategory, error)

	CreateService(ctx context.Context, service *domain.Service) error
	UpdateService(ctx context.Context, service *domain.Service) error
	GetServiceByID(ctx context.Context, id string) (*domain.Service, error)
	ListServices(ctx context.Context, filter ServiceFilter) ([]domain.Service, error)
}

type catalogRepository struct {
	pool *pgxpool.Pool
}

// NewCatalogRepository instantiates repository.
func NewCatalogRepository(pool *pgxpool.Pool) CatalogRepository {
	return &catalogRepository{pool: pool}
}

func (r *catalogRepository) CreateCategory(ctx context.Context, category *domain.ServiceCategory) error {
	const query = `
        INSERT INTO service_categories (name, description, sort_order, is_active)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		category.Name,
		category.Description,
		category.SortOrder,
		category.IsActive,
	).Scan(&category.ID, &category.CreatedAt, &category.UpdatedAt)
}

func (r *catalogRepository) UpdateCategory(ctx context.Context, category *domain.ServiceCategory) error {
	const query = `
        UPDATE service_categories SET name=$1, description=$2, sort_order=$3, is_active=$4, updated_at=NOW()
        WHERE id=$5`
	cmd, err := r.pool.Exec(ctx, query,
		category.Name,
		category.Description,
		category.SortOrder,
		category.IsActive,
		category.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *catalogRepository) GetCategoryByID(ctx context.Context, id string) (*domain.ServiceCategory, error) {
	const query = `
        SELECT id, name, description, sort_order, is_active, created_at, updated_at
        FROM service_categories WHERE id=$1`
	var category domain.ServiceCategory
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&category.ID,
		&category.Name,
		&category.Description,
		&category.SortOrder,
		&category.IsActive,
		&category.CreatedAt,
		&category.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *catalogRepository) ListCategories(ctx context.Context, activeOnly bool) ([]domain.ServiceCategory, error) {
	query := `
        SELECT id, name, description, sort_order, is_active, created_at, updated_at
        FROM service_categories`
	if activeOnly {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY sort_order, name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ServiceCategory
	for rows.Next() {
		var category domain.ServiceCategory
		if err := rows.Scan(
			&category.ID,
			&category.Name,
			&category.Description,
			&category.SortOrder,
			&category.IsActive,
			&category.CreatedAt,
			&category.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, category)
	}
	return result, rows.Err()
}

func (r *catalogRepository) CreateService(ctx context.Context, service *domain.Service) error {
	const query = `
        INSERT INTO services (category_id, name, description, short_description, pricing_type, price,
            admin_price, visibility, requires_verification, is_active, is_featured, sort_order)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		service.CategoryID,
		service.Name,
		service.Description,
		service.ShortDescription,
		service.PricingType,
		service.Price,
		service.AdminPrice,
		service.Visibility,
		service.RequiresVerification,
		service.IsActive,
		service.IsFeatured,
		service.SortOrder,
	).Scan(&service.ID, &service.CreatedAt, &service.UpdatedAt)
}

func (r *catalogRepository) UpdateService(ctx context.Context, service *domain.Service) error {
	const query = `
        UPDATE services SET category_id=$1, name=$2, description=$3, short_description=$4, pricing_type=$5,
            price=$6, admin_price=$7, visibility=$8, requires_verification=$9, is_active=$10,
            is_featured=$11, sort_order=$12, updated_at=NOW()
        WHERE id=$13`
	cmd, err := r.pool.Exec(ctx, query,
		service.CategoryID,
		service.Name,
		service.Description,
		service.ShortDescription,
		service.PricingType,
		service.Price,
		service.AdminPrice,
		service.Visibility,
		service.RequiresVerification,
		service.IsActive,
		service.IsFeatured,
		service.SortOrder,
		service.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *catalogRepository) GetServiceByID(ctx context.Context, id string) (*domain.Service, error) {
	const query = serviceSelect + ` WHERE id=$1`
	var service domain.Service
	if err := r.pool.QueryRow(ctx, query, id).Scan(serviceFields(&service)...); err != nil {
		return nil, err
	}
	return &service, nil
}

func (r *catalogRepository) ListServices(ctx context.Context, filter ServiceFilter) ([]domain.Service, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		clauses = append(clauses, fmt.Sprintf("category_id=$%d", len(args)))
	}
	if filter.ActiveOnly {
		clauses = append(clauses, "is_active")
	}
	if filter.FeaturedOnly {
		clauses = append(clauses, "is_featured")
	}
	if filter.Visibility != nil {
		args = append(args, *filter.Visibility)
		clauses = append(clauses, fmt.Sprintf("visibility=$%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY sort_order, name LIMIT %d OFFSET %d`,
		serviceSelect, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Service
	for rows.Next() {
		var service domain.Service
		if err := rows.Scan(serviceFields(&service)...); err != nil {
			return nil, err
		}
		result = append(result, service)
	}
	return result, rows.Err()
}

const serviceSelect = `
        SELECT id, category_id, name, description, short_description, pricing_type, price, admin_price,
               visibility, requires_verification, is_active, is_featured, sort_order, created_at, updated_at
        FROM services`

func serviceFields(service *domain.Service) []any {
	return []any{
		&service.ID,
		&service.CategoryID,
		&service.Name,
		&service.Description,
		&service.ShortDescription,
		&service.PricingType,
		&service.Price,
		&service.AdminPrice,
		&service.Visibility,
		&service.RequiresVerification,
		&service.IsActive,
		&service.IsFeatured,
		&service.SortOrder,
		&service.CreatedAt,
		&service.UpdatedAt,
	}
}
