// Package storage almacena los bytes de documentos y facturas en disco.
// Los metadatos viven en PostgreSQL; aquí solo hay contenido.
package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jhoicas/Firmador-api/internal/domain"
)

// FileStore almacén de archivos sobre una carpeta base.
type FileStore struct {
	baseDir string
}

// NewFileStore crea la carpeta base si no existe.
func NewFileStore(baseDir string) (*FileStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: crear carpeta %s: %v", domain.ErrStorage, baseDir, err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

// BaseDir carpeta base del almacén.
func (s *FileStore) BaseDir() string { return s.baseDir }

// PathFor ruta completa de un archivo almacenado.
func (s *FileStore) PathFor(name string) string {
	return filepath.Join(s.baseDir, name)
}

// ReadBytes lee el contenido de un documento por ruta (relativa o absoluta).
// Si el archivo no existe devuelve ErrDocumentNotFound.
func (s *FileStore) ReadBytes(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("%w: leer documento %s: %v", domain.ErrStorage, path, err)
	}
	return data, nil
}

// Save escribe el contenido bajo la carpeta base y devuelve la ruta final.
func (s *FileStore) Save(name string, data []byte) (string, error) {
	path := s.PathFor(name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("%w: guardar %s: %v", domain.ErrStorage, name, err)
	}
	return path, nil
}

// Remove elimina un archivo almacenado. No es error que ya no exista.
func (s *FileStore) Remove(name string) error {
	err := os.Remove(s.PathFor(name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: eliminar %s: %v", domain.ErrStorage, name, err)
	}
	return nil
}
