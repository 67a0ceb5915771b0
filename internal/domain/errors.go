package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Los errores del kardex (ErrInvalidMovement, ErrNotFound, ErrInsufficientStock, ErrUnsupported)
// se producen antes de cualquier escritura; el detalle se agrega con fmt.Errorf("%w: ...").
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrInvalidMovement    = errors.New("movimiento inválido")
	ErrUnsupported        = errors.New("tipo de movimiento no soportado")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")
)
