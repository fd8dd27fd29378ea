package dto

// ErrorResponse respuesta de error estándar de la API.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// StatsResponse contadores del tablero principal.
type StatsResponse struct {
	TotalDocuments  int `json:"total_documents"`
	TotalInvoices   int `json:"total_invoices"`
	TotalSignatures int `json:"total_signatures"`
}
