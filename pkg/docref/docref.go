// Package docref normaliza referencias a documentos firmados.
//
// La firma y la verificación deben coincidir byte a byte en la referencia
// almacenada en el registro: la misma ruta escrita con separadores distintos,
// con "./" redundantes o con diacríticos vietnamitas en forma NFD (como los
// entrega macOS) debe resolver al mismo registro de firma.
package docref

import (
	"path/filepath"

	"golang.org/x/text/unicode/norm"
)

// Normalize devuelve la referencia canónica de un documento:
// composición Unicode NFC seguida de limpieza léxica de la ruta.
func Normalize(ref string) string {
	if ref == "" {
		return ref
	}
	return filepath.Clean(norm.NFC.String(ref))
}
