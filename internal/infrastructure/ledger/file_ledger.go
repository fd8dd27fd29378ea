// Package ledger implementa el registro durable de firmas emitidas sobre un
// archivo JSON (signatures.json dentro de la carpeta de llaves).
//
// El archivo guarda un arreglo en orden de inserción: un objeto JSON no
// garantizaría orden estable de iteración al recargar, y la búsqueda por
// referencia debe devolver siempre la primera coincidencia en orden de
// almacenamiento.
package ledger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/jhoicas/Firmador-api/internal/domain"
	"github.com/jhoicas/Firmador-api/internal/domain/entity"
	"github.com/jhoicas/Firmador-api/internal/domain/repository"
)

var _ repository.SignatureLedger = (*FileLedger)(nil)

// FileLedger ledger append-only respaldado en archivo.
// Cada Append reescribe el archivo completo bajo un único lock de escritor y
// con rename atómico: sin el lock, dos firmas concurrentes harían
// read-modify-write sobre el mismo archivo y una pisaría a la otra.
type FileLedger struct {
	path string

	mu      sync.Mutex
	records []*entity.SignatureRecord
}

// NewFileLedger carga el ledger desde disco. Si el archivo no existe arranca
// vacío; si existe pero está corrupto devuelve ErrStorage (no se arranca en
// silencio sobre un registro ilegible).
func NewFileLedger(path string) (*FileLedger, error) {
	l := &FileLedger{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return l, nil
		}
		return nil, fmt.Errorf("%w: leer registro de firmas: %v", domain.ErrStorage, err)
	}
	if err := json.Unmarshal(data, &l.records); err != nil {
		return nil, fmt.Errorf("%w: registro de firmas corrupto: %v", domain.ErrStorage, err)
	}
	return l, nil
}

// Append agrega el registro y persiste el ledger completo. Nunca falla en
// silencio: si la escritura falla, el registro no queda en memoria.
func (l *FileLedger) Append(record *entity.SignatureRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.records = append(l.records, record)
	if err := l.persistLocked(); err != nil {
		l.records = l.records[:len(l.records)-1]
		return err
	}
	return nil
}

// FindByReference búsqueda lineal, primera coincidencia en orden de inserción.
// Devuelve (nil, nil) si no hay firma para la referencia.
func (l *FileLedger) FindByReference(ref string) (*entity.SignatureRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, r := range l.records {
		if r.DocumentRef == ref {
			return r, nil
		}
	}
	return nil, nil
}

// All devuelve una copia del listado en orden de inserción.
func (l *FileLedger) All() ([]*entity.SignatureRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]*entity.SignatureRecord, len(l.records))
	copy(out, l.records)
	return out, nil
}

// Count número de firmas registradas.
func (l *FileLedger) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

// persistLocked serializa el ledger completo y lo escribe con rename atómico.
// El caller debe sostener l.mu.
func (l *FileLedger) persistLocked() error {
	data, err := json.MarshalIndent(l.records, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: serializar registro de firmas: %v", domain.ErrStorage, err)
	}
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("%w: crear carpeta del registro: %v", domain.ErrStorage, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(l.path), "signatures.json.tmp-*")
	if err != nil {
		return fmt.Errorf("%w: temporal del registro: %v", domain.ErrStorage, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: escribir registro de firmas: %v", domain.ErrStorage, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: cerrar temporal del registro: %v", domain.ErrStorage, err)
	}
	if err := os.Rename(tmpName, l.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: publicar registro de firmas: %v", domain.ErrStorage, err)
	}
	return nil
}
