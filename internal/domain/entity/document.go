package entity

import "time"

// Document metadatos de un documento almacenado (el contenido vive en disco).
type Document struct {
	ID               string
	OriginalFilename string
	StoredFilename   string // <uuid>.<ext> dentro de la carpeta de uploads
	Title            string
	Category         string
	Description      string
	Tags             []string
	FileSize         int64
	FileHash         string // SHA-256 hex del contenido, para control de integridad
	FileExtension    string
	Version          int
	CreatedBy        string
	UploadDate       time.Time
	IsActive         bool
}
