package documents

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Firmador-api/internal/domain"
	"github.com/jhoicas/Firmador-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeDocumentRepo struct {
	docs       map[string]*entity.Document
	failCreate error
}

func newFakeDocumentRepo() *fakeDocumentRepo {
	return &fakeDocumentRepo{docs: map[string]*entity.Document{}}
}

func (r *fakeDocumentRepo) Create(doc *entity.Document) error {
	if r.failCreate != nil {
		return r.failCreate
	}
	r.docs[doc.ID] = doc
	return nil
}

func (r *fakeDocumentRepo) GetByID(id string) (*entity.Document, error) {
	doc, ok := r.docs[id]
	if !ok || !doc.IsActive {
		return nil, nil
	}
	return doc, nil
}

func (r *fakeDocumentRepo) List() ([]*entity.Document, error) {
	var out []*entity.Document
	for _, d := range r.docs {
		if d.IsActive {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *fakeDocumentRepo) Search(query, category string) ([]*entity.Document, error) {
	var out []*entity.Document
	for _, d := range r.docs {
		if !d.IsActive {
			continue
		}
		if category != "" && d.Category != category {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(d.Title), strings.ToLower(query)) {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func (r *fakeDocumentRepo) SoftDelete(id string) error {
	doc, ok := r.docs[id]
	if !ok || !doc.IsActive {
		return domain.ErrNotFound
	}
	doc.IsActive = false
	return nil
}

func (r *fakeDocumentRepo) Count() (int, error) {
	n := 0
	for _, d := range r.docs {
		if d.IsActive {
			n++
		}
	}
	return n, nil
}

type fakeFileStorage struct {
	files map[string][]byte
}

func newFakeFileStorage() *fakeFileStorage {
	return &fakeFileStorage{files: map[string][]byte{}}
}

func (s *fakeFileStorage) Save(name string, data []byte) (string, error) {
	s.files[name] = data
	return "uploads/" + name, nil
}

func (s *fakeFileStorage) Remove(name string) error {
	delete(s.files, name)
	return nil
}

func (s *fakeFileStorage) PathFor(name string) string { return "uploads/" + name }

// ──────────────────────────────────────────────────────────────────────────────
// Tests Upload
// ──────────────────────────────────────────────────────────────────────────────

func TestUpload_PersisteArchivoYMetadatos(t *testing.T) {
	repo := newFakeDocumentRepo()
	store := newFakeFileStorage()
	uc := NewDocumentUseCase(repo, store)

	doc, err := uc.Upload(context.Background(), "Contrato Servicios.PDF", []byte("contenido"), UploadMetadata{
		Title:     "Contrato de servicios",
		Category:  "contratos",
		Tags:      []string{" legal ", "", "2026"},
		CreatedBy: "admin",
	})
	require.NoError(t, err)

	assert.Equal(t, "pdf", doc.FileExtension, "la extensión se normaliza a minúsculas")
	assert.Equal(t, doc.ID+".pdf", doc.StoredFilename)
	assert.Equal(t, int64(9), doc.FileSize)
	assert.Len(t, doc.FileHash, 64, "SHA-256 en hex")
	assert.Equal(t, []string{"legal", "2026"}, doc.Tags, "tags limpios, sin vacíos")
	assert.Equal(t, 1, doc.Version)
	assert.True(t, doc.IsActive)

	assert.Contains(t, store.files, doc.StoredFilename)
	assert.Contains(t, repo.docs, doc.ID)
}

func TestUpload_TituloPorDefecto(t *testing.T) {
	uc := NewDocumentUseCase(newFakeDocumentRepo(), newFakeFileStorage())
	doc, err := uc.Upload(context.Background(), "informe.txt", []byte("x"), UploadMetadata{})
	require.NoError(t, err)
	assert.Equal(t, "informe.txt", doc.Title)
	assert.Equal(t, "general", doc.Category)
}

func TestUpload_ExtensionNoPermitida(t *testing.T) {
	uc := NewDocumentUseCase(newFakeDocumentRepo(), newFakeFileStorage())

	_, err := uc.Upload(context.Background(), "script.exe", []byte("mz"), UploadMetadata{})
	assert.ErrorIs(t, err, domain.ErrFileNotAllowed)

	_, err = uc.Upload(context.Background(), "sin_extension", []byte("x"), UploadMetadata{})
	assert.ErrorIs(t, err, domain.ErrFileNotAllowed)
}

func TestUpload_EntradaVacia(t *testing.T) {
	uc := NewDocumentUseCase(newFakeDocumentRepo(), newFakeFileStorage())

	_, err := uc.Upload(context.Background(), "", []byte("x"), UploadMetadata{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Upload(context.Background(), "a.pdf", nil, UploadMetadata{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpload_RepoFalla_SinArchivoHuerfano(t *testing.T) {
	repo := newFakeDocumentRepo()
	repo.failCreate = domain.ErrDuplicate
	store := newFakeFileStorage()
	uc := NewDocumentUseCase(repo, store)

	_, err := uc.Upload(context.Background(), "doc.pdf", []byte("x"), UploadMetadata{})
	require.Error(t, err)
	assert.Empty(t, store.files, "si los metadatos fallan, los bytes no deben quedar huérfanos")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests consulta y eliminación
// ──────────────────────────────────────────────────────────────────────────────

func TestGetByID_NoExiste(t *testing.T) {
	uc := NewDocumentUseCase(newFakeDocumentRepo(), newFakeFileStorage())
	_, err := uc.GetByID(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete_BajaLogicaYArchivoEliminado(t *testing.T) {
	repo := newFakeDocumentRepo()
	store := newFakeFileStorage()
	uc := NewDocumentUseCase(repo, store)

	doc, err := uc.Upload(context.Background(), "doc.pdf", []byte("x"), UploadMetadata{})
	require.NoError(t, err)

	require.NoError(t, uc.Delete(context.Background(), doc.ID))

	assert.NotContains(t, store.files, doc.StoredFilename, "los bytes se eliminan")
	assert.False(t, repo.docs[doc.ID].IsActive, "los metadatos quedan como baja lógica")

	// El cache no debe seguir sirviendo el documento eliminado.
	_, err = uc.GetByID(context.Background(), doc.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestList_CacheSeInvalidaAlSubir(t *testing.T) {
	uc := NewDocumentUseCase(newFakeDocumentRepo(), newFakeFileStorage())

	docs, err := uc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, docs)

	_, err = uc.Upload(context.Background(), "doc.pdf", []byte("x"), UploadMetadata{})
	require.NoError(t, err)

	docs, err = uc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, docs, 1, "el listado cacheado debe invalidarse con cada carga")
}

func TestSearch_PorCategoria(t *testing.T) {
	uc := NewDocumentUseCase(newFakeDocumentRepo(), newFakeFileStorage())

	_, err := uc.Upload(context.Background(), "a.pdf", []byte("x"), UploadMetadata{Category: "contratos"})
	require.NoError(t, err)
	_, err = uc.Upload(context.Background(), "b.pdf", []byte("y"), UploadMetadata{Category: "facturas"})
	require.NoError(t, err)

	docs, err := uc.Search(context.Background(), "", "contratos")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "contratos", docs[0].Category)
}
