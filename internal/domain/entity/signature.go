package entity

import "time"

// Estado de un registro de firma. La verificación nunca muta este campo:
// produce un veredicto aparte, no un cambio de estado.
const SignatureStatusValid = "valid"

// AlgorithmRSAPSSSHA256 descriptor fijo del esquema de firma:
// RSA-PSS sobre SHA-256, MGF1/SHA-256, salt de longitud máxima.
const AlgorithmRSAPSSSHA256 = "RSA-PSS-SHA256"

// SignatureRecord registro inmutable de una firma emitida.
// Se crea exactamente una vez por el firmador y nunca se actualiza.
// Los campos []byte se serializan en base64 estándar vía encoding/json.
type SignatureRecord struct {
	ID            string    `json:"signature_id"`    // SIG-<timestamp>-<sufijo>
	DocumentRef   string    `json:"document_path"`   // Referencia normalizada (no el contenido)
	SignerName    string    `json:"signer_name"`
	SignerEmail   string    `json:"signer_email"`
	SignerTaxCode string    `json:"signer_tax_code"`
	Signature     []byte    `json:"signature"`       // Firma RSA-PSS sobre el digest
	DocumentHash  []byte    `json:"document_hash"`   // SHA-256 del documento al momento de firmar
	Timestamp     time.Time `json:"timestamp"`       // ISO-8601 (RFC 3339)
	Algorithm     string    `json:"algorithm"`
	KeySize       int       `json:"key_size"`
	Status        string    `json:"status"`
}
