package repository

import "github.com/jhoicas/Firmador-api/internal/domain/entity"

// SignatureLedger registro durable y append-only de firmas emitidas.
//
// El orden de iteración de All es estable e igual al orden de inserción;
// FindByReference devuelve la primera coincidencia estructural en ese orden
// (puede no ser la más reciente si un documento fue firmado varias veces).
// Ningún registro se sobreescribe ni se elimina.
type SignatureLedger interface {
	// Append agrega el registro y persiste el ledger completo de forma atómica.
	Append(record *entity.SignatureRecord) error
	// FindByReference busca por referencia normalizada. Devuelve (nil, nil) si no hay registro.
	FindByReference(ref string) (*entity.SignatureRecord, error)
	// All devuelve los registros en orden de inserción.
	All() ([]*entity.SignatureRecord, error)
	// Count número de firmas registradas.
	Count() int
}
