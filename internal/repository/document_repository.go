package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/consultancy-service/internal/domain"
)

// DocumentRepository encapsulates document persistence. Documents are
// append-plus-review only; there is no delete.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	UpdateReview(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	ListByProfile(ctx context.Context, profileID string) ([]domain.Document, error)
	ListPending(ctx context.Context, limit, offset int) ([]domain.Document, error)
}

type documentRepository struct {
	pool *pgxpool.Pool
}

// NewDocumentRepository instantiates repository.
func NewDocumentRepository(pool *pgxpool.Pool) DocumentRepository {
	return &documentRepository{pool: pool}
}

func (r *documentRepository) Create(ctx context.Context, doc *domain.Document) error {
	const query = `
        INSERT INTO documents (profile_id, document_type, title, storage_key, file_name, mime_type, size_bytes, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		doc.ProfileID,
		doc.DocumentType,
		doc.Title,
		doc.StorageKey,
		doc.FileName,
		doc.MimeType,
		doc.SizeBytes,
		doc.Status,
	).Scan(&doc.ID, &doc.CreatedAt, &doc.UpdatedAt)
}

func (r *documentRepository) UpdateReview(ctx context.Context, doc *domain.Document) error {
	const query = `
        UPDATE documents SET status=$1, reviewed_by=$2, review_notes=$3, reviewed_at=$4, updated_at=NOW()
        WHERE id=$5`
	cmd, err := r.pool.Exec(ctx, query,
		doc.Status,
		doc.ReviewedBy,
		doc.ReviewNotes,
		doc.ReviewedAt,
		doc.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *documentRepository) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	const query = documentSelect + ` WHERE id=$1`
	var doc domain.Document
	if err := r.pool.QueryRow(ctx, query, id).Scan(documentFields(&doc)...); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *documentRepository) ListByProfile(ctx context.Context, profileID string) ([]domain.Document, error) {
	const query = documentSelect + ` WHERE profile_id=$1 ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDocuments(rows)
}

func (r *documentRepository) ListPending(ctx context.Context, limit, offset int) ([]domain.Document, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	const query = documentSelect + ` WHERE status='PENDING' ORDER BY created_at LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDocuments(rows)
}

const documentSelect = `
        SELECT id, profile_id, document_type, title, storage_key, file_name, mime_type, size_bytes,
               status, reviewed_by, review_notes, reviewed_at, created_at, updated_at
        FROM documents`

func documentFields(doc *domain.Document) []any {
	return []any{
		&doc.ID,
		&doc.ProfileID,
		&doc.DocumentType,
		&doc.Title,
		&doc.StorageKey,
		&doc.FileName,
		&doc.MimeType,
		&doc.SizeBytes,
		&doc.Status,
		&doc.ReviewedBy,
		&doc.ReviewNotes,
		&doc.ReviewedAt,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	}
}

func scanDocuments(rows pgx.Rows) ([]domain.Document, error) {
	var result []domain.Document
	for rows.Next() {
		var doc domain.Document
		if err := rows.Scan(documentFields(&doc)...); err != nil {
			return nil, err
		}
		result = append(result, doc)
	}
	return result, rows.Err()
}
