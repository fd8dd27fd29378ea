package auth

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Firmador-api/internal/domain"
	pkgjwt "github.com/jhoicas/Firmador-api/pkg/jwt"
)

// Config credenciales del administrador y parámetros del token.
// El sistema no tiene tabla de usuarios: una sola credencial de operación
// definida por configuración protege la API.
type Config struct {
	AdminEmail        string
	AdminPasswordHash string // bcrypt
	Secret            string
	Issuer            string
	ExpMinutes        int
}

// AuthUseCase emite tokens de acceso para la API.
type AuthUseCase struct {
	cfg Config
}

// NewAuthUseCase construye el caso de uso.
func NewAuthUseCase(cfg Config) *AuthUseCase {
	return &AuthUseCase{cfg: cfg}
}

// Login valida las credenciales del administrador y devuelve un JWT.
func (uc *AuthUseCase) Login(email, password string) (string, error) {
	if uc.cfg.AdminPasswordHash == "" {
		return "", domain.ErrUnauthorized
	}
	if email != uc.cfg.AdminEmail {
		return "", domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(uc.cfg.AdminPasswordHash), []byte(password)); err != nil {
		return "", domain.ErrUnauthorized
	}
	return pkgjwt.Generate(uc.cfg.Secret, "admin", "admin", uc.cfg.Issuer, uc.cfg.ExpMinutes)
}
