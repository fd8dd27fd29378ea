package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Firmador-api/internal/domain"
	"github.com/jhoicas/Firmador-api/internal/domain/entity"
	"github.com/jhoicas/Firmador-api/internal/domain/repository"
)

var _ repository.DocumentRepository = (*DocumentRepo)(nil)

// DocumentRepo implementación de DocumentRepository (usable con pool o tx).
type DocumentRepo struct {
	q Querier
}

// NewDocumentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDocumentRepository(q Querier) *DocumentRepo {
	return &DocumentRepo{q: q}
}

const documentColumns = `id, original_filename, stored_filename, title, category, description,
		tags, file_size, file_hash, file_extension, version, created_by, upload_date, is_active`

// Create persiste los metadatos de un documento nuevo.
func (r *DocumentRepo) Create(doc *entity.Document) error {
	query := `
		INSERT INTO documents (` + documentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(context.Background(), query,
		doc.ID, doc.OriginalFilename, doc.StoredFilename, doc.Title, doc.Category, doc.Description,
		doc.Tags, doc.FileSize, doc.FileHash, doc.FileExtension, doc.Version, doc.CreatedBy,
		doc.UploadDate, doc.IsActive,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

// GetByID obtiene un documento activo por ID. Devuelve (nil, nil) si no existe.
func (r *DocumentRepo) GetByID(id string) (*entity.Document, error) {
	query := `
		SELECT ` + documentColumns + `
		FROM documents WHERE id = $1 AND is_active`
	doc, err := scanDocument(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	return doc, nil
}

// List lista los documentos activos, más recientes primero.
func (r *DocumentRepo) List() ([]*entity.Document, error) {
	query := `
		SELECT ` + documentColumns + `
		FROM documents WHERE is_active
		ORDER BY upload_date DESC`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()
	return collectDocuments(rows)
}

// Search busca por texto libre en título, descripción y tags, y/o por categoría.
func (r *DocumentRepo) Search(queryText, category string) ([]*entity.Document, error) {
	query := `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE is_active
		  AND ($1 = '' OR title ILIKE '%' || $1 || '%'
		       OR description ILIKE '%' || $1 || '%'
		       OR EXISTS (SELECT 1 FROM unnest(tags) t WHERE t ILIKE '%' || $1 || '%'))
		  AND ($2 = '' OR category = $2)
		ORDER BY upload_date DESC`
	rows, err := r.q.Query(context.Background(), query, queryText, category)
	if err != nil {
		return nil, fmt.Errorf("search documents: %w", err)
	}
	defer rows.Close()
	return collectDocuments(rows)
}

// SoftDelete marca el documento como inactivo (los bytes se eliminan aparte).
func (r *DocumentRepo) SoftDelete(id string) error {
	tag, err := r.q.Exec(context.Background(),
		`UPDATE documents SET is_active = false WHERE id = $1 AND is_active`, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Count número de documentos activos.
func (r *DocumentRepo) Count() (int, error) {
	var n int
	err := r.q.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM documents WHERE is_active`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}
	return n, nil
}

func scanDocument(row pgx.Row) (*entity.Document, error) {
	var d entity.Document
	err := row.Scan(
		&d.ID, &d.OriginalFilename, &d.StoredFilename, &d.Title, &d.Category, &d.Description,
		&d.Tags, &d.FileSize, &d.FileHash, &d.FileExtension, &d.Version, &d.CreatedBy,
		&d.UploadDate, &d.IsActive,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func collectDocuments(rows pgx.Rows) ([]*entity.Document, error) {
	var out []*entity.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
