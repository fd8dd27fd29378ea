package dto

// TokenRequest body para POST /api/auth/token.
type TokenRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse token de acceso emitido.
type TokenResponse struct {
	Token string `json:"token"`
}
