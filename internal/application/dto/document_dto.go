package dto

// DocumentResponse documento en respuestas de la API.
type DocumentResponse struct {
	ID               string   `json:"id"`
	OriginalFilename string   `json:"original_filename"`
	Title            string   `json:"title"`
	Category         string   `json:"category"`
	Description      string   `json:"description,omitempty"`
	Tags             []string `json:"tags"`
	FileSize         int64    `json:"file_size"`
	FileHash         string   `json:"file_hash"`
	FileExtension    string   `json:"file_extension"`
	Version          int      `json:"version"`
	CreatedBy        string   `json:"created_by,omitempty"`
	UploadDate       string   `json:"upload_date"`
}

// DocumentListResponse envoltorio de listados y búsquedas.
type DocumentListResponse struct {
	Documents []DocumentResponse `json:"documents"`
}
