package signature

import (
	"bytes"
	"context"
	"crypto"
	"crypto/rsa"
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/jhoicas/Firmador-api/internal/domain"
	"github.com/jhoicas/Firmador-api/internal/domain/repository"
	"github.com/jhoicas/Firmador-api/pkg/docref"
)

// Veredictos de integridad. El caller debe mostrar la distinción al usuario
// final: no es lo mismo un documento alterado que una firma malformada o la
// ausencia de registro.
const (
	IntegrityIntact      = "intact"      // Digest y firma verifican
	IntegrityCompromised = "compromised" // El contenido cambió después de la firma
	IntegrityInvalid     = "invalid"     // Digest coincide pero la firma no verifica
	IntegrityUnknown     = "unknown"     // No hay firma registrada para la referencia
)

// VerificationResult veredicto estructurado de una verificación.
// Valid solo es true con integridad intacta; Reason explica los demás casos.
type VerificationResult struct {
	Valid       bool
	Integrity   string
	Reason      string
	SignatureID string
	Signer      string
	Algorithm   string
	Timestamp   time.Time
}

// VerifyUseCase confirma que un documento coincide con una firma emitida
// previamente y detecta alteraciones. La confianza está anclada por completo
// en la identidad autofirmada del KeyStore; no se consulta ninguna autoridad
// certificadora externa.
type VerifyUseCase struct {
	keys   IdentityKeys
	ledger repository.SignatureLedger
	reader DocumentReader
}

// NewVerifyUseCase construye el caso de uso.
func NewVerifyUseCase(keys IdentityKeys, ledger repository.SignatureLedger, reader DocumentReader) *VerifyUseCase {
	return &VerifyUseCase{keys: keys, ledger: ledger, reader: reader}
}

// VerifyDocument verifica el documento en la ruta dada contra el ledger:
//
//  1. Busca el registro por referencia normalizada (primera coincidencia en
//     orden de almacenamiento).
//  2. Sin registro -> integridad "unknown".
//  3. Recalcula SHA-256 y compara con el digest almacenado. Si difieren ->
//     "compromised"; la verificación RSA nunca se intenta contra un digest
//     que ya se sabe incorrecto.
//  4. Si los digests coinciden, verifica la firma RSA-PSS con la llave
//     pública. Fallo -> "invalid"; éxito -> veredicto válido con identidad
//     del firmante, timestamp y algoritmo.
//
// El error de retorno es solo para fallas de I/O (documento ilegible,
// ledger corrupto); los veredictos negativos no son errores.
func (uc *VerifyUseCase) VerifyDocument(_ context.Context, path string) (*VerificationResult, error) {
	record, err := uc.ledger.FindByReference(docref.Normalize(path))
	if err != nil {
		return nil, err
	}
	if record == nil {
		return &VerificationResult{
			Valid:     false,
			Integrity: IntegrityUnknown,
			Reason:    "no existe firma registrada para este documento",
		}, nil
	}

	data, err := uc.reader.ReadBytes(path)
	if err != nil {
		return nil, err
	}
	digest := sha256.Sum256(data)

	if !bytes.Equal(digest[:], record.DocumentHash) {
		return &VerificationResult{
			Valid:       false,
			Integrity:   IntegrityCompromised,
			Reason:      "el documento fue modificado después de la firma",
			SignatureID: record.ID,
		}, nil
	}

	pub := uc.keys.PublicKey()
	if pub == nil {
		return nil, fmt.Errorf("%w: llave pública no disponible", domain.ErrCrypto)
	}
	opts := &rsa.PSSOptions{SaltLength: rsa.PSSSaltLengthAuto, Hash: crypto.SHA256}
	if err := rsa.VerifyPSS(pub, crypto.SHA256, digest[:], record.Signature, opts); err != nil {
		return &VerificationResult{
			Valid:       false,
			Integrity:   IntegrityInvalid,
			Reason:      "la verificación criptográfica de la firma falló",
			SignatureID: record.ID,
		}, nil
	}

	return &VerificationResult{
		Valid:       true,
		Integrity:   IntegrityIntact,
		SignatureID: record.ID,
		Signer:      record.SignerName,
		Algorithm:   record.Algorithm,
		Timestamp:   record.Timestamp,
	}, nil
}
