package services

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a record does not exist, or exists but
	// the caller has no visibility over it. The two cases are deliberately
	// indistinguishable so a vendedora cannot probe for other sellers'
	// pedidos.
	ErrNotFound = errors.New("registro no encontrado")

	// ErrForbidden is returned when the caller's role does not permit the
	// operation.
	ErrForbidden = errors.New("acceso denegado")
)

// ValidationError reports the first offending field of a rejected
// payload. Messages are user-facing and in Spanish, as the API has
// always spoken.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// AsValidationError unwraps err into a *ValidationError if it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
