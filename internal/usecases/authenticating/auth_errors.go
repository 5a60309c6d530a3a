package authenticating

import (
	"errors"
)

var (
	ErrInvalidToken   = errors.New("token inválido")
	ErrExpiredToken   = errors.New("token expirado")
	ErrMissingSecret  = errors.New("segredo de autenticação não configurado")
	ErrInvalidRole    = errors.New("role inválida")
	ErrMissingSubject = errors.New("operador não informado")
)

// IsAuthorizationError verifica se o erro está relacionado a problemas de autorização
func IsAuthorizationError(err error) bool {
	return errors.Is(err, ErrInvalidToken) ||
		errors.Is(err, ErrExpiredToken) ||
		errors.Is(err, ErrInvalidRole)
}
