package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrDocumentNotFound  = errors.New("documento no encontrado")
	ErrSignatureNotFound = errors.New("no existe firma registrada para el documento")
	ErrStorage           = errors.New("material persistido ilegible o corrupto")
	ErrCrypto            = errors.New("fallo en primitiva criptográfica")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrFileNotAllowed    = errors.New("tipo de archivo no permitido")
)
