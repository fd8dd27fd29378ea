package signature

import (
	"context"
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Firmador-api/internal/domain/entity"
	"github.com/jhoicas/Firmador-api/internal/domain/repository"
	"github.com/jhoicas/Firmador-api/pkg/docref"
)

// SignerInfo metadatos de identidad del firmante, provistos por el caller.
// No se validan contra ningún registro externo.
type SignerInfo struct {
	Name    string
	Email   string
	TaxCode string
}

// Identidad fija con la que el sistema firma las facturas XML que él mismo genera.
var systemSigner = SignerInfo{
	Name:    "Sistema de Facturación MiPyME",
	Email:   "facturacion@mipyme.vn",
	TaxCode: "DEMO-TAX-CODE",
}

// SignUseCase liga un documento a la identidad de firma vigente y deja
// constancia en el ledger. Cada llamada agrega un registro; ninguno se
// sobreescribe.
type SignUseCase struct {
	keys   IdentityKeys
	ledger repository.SignatureLedger
	reader DocumentReader
}

// NewSignUseCase construye el caso de uso.
func NewSignUseCase(keys IdentityKeys, ledger repository.SignatureLedger, reader DocumentReader) *SignUseCase {
	return &SignUseCase{keys: keys, ledger: ledger, reader: reader}
}

// SignDocument firma el documento en la ruta dada:
// SHA-256 del contenido, firma RSA-PSS del digest (salt aleatorio por
// llamada: dos firmas del mismo contenido no son idénticas byte a byte),
// registro en el ledger y persistencia. Cualquier fallo de I/O o cripto se
// devuelve sincrónicamente; no hay reintentos.
func (uc *SignUseCase) SignDocument(_ context.Context, path string, info SignerInfo) (*entity.SignatureRecord, error) {
	data, err := uc.reader.ReadBytes(path)
	if err != nil {
		return nil, err
	}

	digest := sha256.Sum256(data)
	sig, err := uc.keys.SignDigest(digest[:])
	if err != nil {
		return nil, err
	}

	now := time.Now()
	record := &entity.SignatureRecord{
		ID:            newSignatureID(now),
		DocumentRef:   docref.Normalize(path),
		SignerName:    info.Name,
		SignerEmail:   info.Email,
		SignerTaxCode: info.TaxCode,
		Signature:     sig,
		DocumentHash:  digest[:],
		Timestamp:     now,
		Algorithm:     entity.AlgorithmRSAPSSSHA256,
		KeySize:       2048,
		Status:        entity.SignatureStatusValid,
	}
	if err := uc.ledger.Append(record); err != nil {
		return nil, err
	}
	return record, nil
}

// SignInvoiceXML firma una factura XML con la identidad fija del sistema.
func (uc *SignUseCase) SignInvoiceXML(ctx context.Context, xmlPath string) (*entity.SignatureRecord, error) {
	return uc.SignDocument(ctx, xmlPath, systemSigner)
}

// ListSignatures devuelve todas las firmas emitidas en orden de registro.
func (uc *SignUseCase) ListSignatures(_ context.Context) ([]*entity.SignatureRecord, error) {
	return uc.ledger.All()
}

// newSignatureID genera un ID único derivado del tiempo. El timestamp solo
// tiene resolución de segundos (formato heredado SIG-YYYYMMDDHHMMSS), así que
// se agrega un sufijo aleatorio: dos firmas dentro del mismo segundo deben
// producir IDs distintos.
func newSignatureID(now time.Time) string {
	return fmt.Sprintf("SIG-%s-%s", now.Format("20060102150405"), uuid.NewString()[:8])
}
