package repository

import "github.com/jhoicas/Firmador-api/internal/domain/entity"

// DocumentRepository persistencia de metadatos de documentos.
type DocumentRepository interface {
	Create(doc *entity.Document) error
	// GetByID devuelve (nil, nil) si el documento no existe o está inactivo.
	GetByID(id string) (*entity.Document, error)
	List() ([]*entity.Document, error)
	// Search busca por texto libre (título, descripción, tags) y/o categoría.
	Search(query, category string) ([]*entity.Document, error)
	// SoftDelete marca el documento como inactivo; los bytes se eliminan aparte.
	SoftDelete(id string) error
	Count() (int, error)
}
