package documents

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/jhoicas/Firmador-api/internal/domain"
	"github.com/jhoicas/Firmador-api/internal/domain/entity"
	"github.com/jhoicas/Firmador-api/internal/domain/repository"
)

// FileStorage bytes de los documentos (los metadatos van al repositorio).
type FileStorage interface {
	Save(name string, data []byte) (string, error)
	Remove(name string) error
	PathFor(name string) string
}

// Extensiones aceptadas para carga de documentos.
var allowedExtensions = map[string]struct{}{
	"pdf": {}, "doc": {}, "docx": {}, "xls": {}, "xlsx": {},
	"txt": {}, "jpg": {}, "jpeg": {}, "png": {}, "zip": {},
}

const listCacheKey = "docs:list"

// UploadMetadata metadatos provistos al subir un documento.
type UploadMetadata struct {
	Title       string
	Category    string
	Description string
	Tags        []string
	CreatedBy   string
}

// DocumentUseCase gestión documental: carga, consulta, búsqueda y eliminación.
// Las lecturas frecuentes (detalle y listado) pasan por un cache TTL en
// memoria; toda escritura lo invalida.
type DocumentUseCase struct {
	repo  repository.DocumentRepository
	store FileStorage
	cache *gocache.Cache
}

// NewDocumentUseCase construye el caso de uso.
func NewDocumentUseCase(repo repository.DocumentRepository, store FileStorage) *DocumentUseCase {
	return &DocumentUseCase{
		repo:  repo,
		store: store,
		cache: gocache.New(5*time.Minute, 10*time.Minute),
	}
}

// Upload guarda el contenido con nombre <uuid>.<ext>, calcula el hash SHA-256
// de integridad y persiste los metadatos.
func (uc *DocumentUseCase) Upload(_ context.Context, filename string, data []byte, meta UploadMetadata) (*entity.Document, error) {
	if filename == "" || len(data) == 0 {
		return nil, domain.ErrInvalidInput
	}
	ext := extensionOf(filename)
	if _, ok := allowedExtensions[ext]; !ok {
		return nil, domain.ErrFileNotAllowed
	}

	docID := uuid.NewString()
	stored := docID + "." + ext
	if _, err := uc.store.Save(stored, data); err != nil {
		return nil, err
	}

	hash := sha256.Sum256(data)

	title := meta.Title
	if title == "" {
		title = filename
	}
	category := meta.Category
	if category == "" {
		category = "general"
	}

	doc := &entity.Document{
		ID:               docID,
		OriginalFilename: filename,
		StoredFilename:   stored,
		Title:            title,
		Category:         category,
		Description:      meta.Description,
		Tags:             cleanTags(meta.Tags),
		FileSize:         int64(len(data)),
		FileHash:         hex.EncodeToString(hash[:]),
		FileExtension:    ext,
		Version:          1,
		CreatedBy:        meta.CreatedBy,
		UploadDate:       time.Now(),
		IsActive:         true,
	}
	if err := uc.repo.Create(doc); err != nil {
		// Metadatos fallidos: no dejar el archivo huérfano.
		_ = uc.store.Remove(stored)
		return nil, err
	}

	uc.cache.Delete(listCacheKey)
	return doc, nil
}

// GetByID obtiene un documento activo por ID.
func (uc *DocumentUseCase) GetByID(_ context.Context, id string) (*entity.Document, error) {
	if cached, ok := uc.cache.Get("doc:" + id); ok {
		return cached.(*entity.Document), nil
	}
	doc, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.ErrNotFound
	}
	uc.cache.SetDefault("doc:"+id, doc)
	return doc, nil
}

// List lista los documentos activos.
func (uc *DocumentUseCase) List(_ context.Context) ([]*entity.Document, error) {
	if cached, ok := uc.cache.Get(listCacheKey); ok {
		return cached.([]*entity.Document), nil
	}
	docs, err := uc.repo.List()
	if err != nil {
		return nil, err
	}
	uc.cache.SetDefault(listCacheKey, docs)
	return docs, nil
}

// Search busca por texto libre y/o categoría (sin cache: criterios abiertos).
func (uc *DocumentUseCase) Search(_ context.Context, query, category string) ([]*entity.Document, error) {
	return uc.repo.Search(query, category)
}

// Delete marca el documento como inactivo y elimina sus bytes.
func (uc *DocumentUseCase) Delete(ctx context.Context, id string) error {
	doc, err := uc.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := uc.repo.SoftDelete(id); err != nil {
		return err
	}
	if err := uc.store.Remove(doc.StoredFilename); err != nil {
		return err
	}
	uc.cache.Delete("doc:" + id)
	uc.cache.Delete(listCacheKey)
	return nil
}

// DownloadPath devuelve la ruta en disco del contenido de un documento.
func (uc *DocumentUseCase) DownloadPath(ctx context.Context, id string) (string, *entity.Document, error) {
	doc, err := uc.GetByID(ctx, id)
	if err != nil {
		return "", nil, err
	}
	return uc.store.PathFor(doc.StoredFilename), doc, nil
}

// Count número de documentos activos (para el tablero de estadísticas).
func (uc *DocumentUseCase) Count(_ context.Context) (int, error) {
	return uc.repo.Count()
}

func extensionOf(filename string) string {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 || idx == len(filename)-1 {
		return ""
	}
	return strings.ToLower(filename[idx+1:])
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
