package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Los handlers HTTP los traducen a códigos de estado con errors.Is.
var (
	ErrNotFound           = errors.New("recurso não encontrado")
	ErrProductNotFound    = errors.New("Produto não encontrado")
	ErrUserNotFound       = errors.New("Usuário não encontrado")
	ErrEmailAlreadyExists = errors.New("E-mail já cadastrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("Credenciais inválidas")
	ErrForbidden          = errors.New("acesso negado")
	ErrConflict           = errors.New("conflito com o estado atual")
)

// ValidationError detalla una entrada inválida; errors.Is(err, ErrInvalidInput) es verdadero.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Is permite comparar contra ErrInvalidInput.
func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// Invalid construye un ValidationError con el mensaje que verá el cliente.
func Invalid(msg string) error {
	return &ValidationError{Message: msg}
}
