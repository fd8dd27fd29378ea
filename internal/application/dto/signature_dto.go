package dto

// SignRequest body para POST /api/signatures/sign.
type SignRequest struct {
	DocumentPath  string `json:"document_path"`
	SignerName    string `json:"signer_name"`
	SignerEmail   string `json:"signer_email,omitempty"`
	SignerTaxCode string `json:"signer_tax_code,omitempty"`
}

// SignDocumentRequest body para POST /api/signatures/documents/:id
// (firma de un documento ya almacenado en gestión documental).
type SignDocumentRequest struct {
	SignerName    string `json:"signer_name"`
	SignerEmail   string `json:"signer_email,omitempty"`
	SignerTaxCode string `json:"signer_tax_code,omitempty"`
}

// SignResponse resultado de una firma exitosa.
type SignResponse struct {
	Success     bool   `json:"success"`
	SignatureID string `json:"signature_id"`
	Signature   string `json:"signature"` // base64
	Timestamp   string `json:"timestamp"` // ISO-8601
	Signer      string `json:"signer"`
}

// VerifyRequest body para POST /api/signatures/verify.
type VerifyRequest struct {
	DocumentPath string `json:"document_path"`
}

// VerifyResponse veredicto de verificación. Cuando Valid es false, Integrity
// distingue "compromised" (contenido alterado), "invalid" (firma no verifica)
// y "unknown" (sin firma registrada); el frontend no debe colapsar los tres.
type VerifyResponse struct {
	Valid       bool   `json:"valid"`
	Integrity   string `json:"integrity,omitempty"`
	Reason      string `json:"error,omitempty"`
	SignatureID string `json:"signature_id,omitempty"`
	Signer      string `json:"signer,omitempty"`
	Timestamp   string `json:"timestamp,omitempty"`
	Algorithm   string `json:"algorithm,omitempty"`
}

// SignatureRecordResponse registro de firma en listados.
type SignatureRecordResponse struct {
	SignatureID   string `json:"signature_id"`
	DocumentPath  string `json:"document_path"`
	SignerName    string `json:"signer_name"`
	SignerEmail   string `json:"signer_email,omitempty"`
	SignerTaxCode string `json:"signer_tax_code,omitempty"`
	Timestamp     string `json:"timestamp"`
	Algorithm     string `json:"algorithm"`
	Status        string `json:"status"`
}
