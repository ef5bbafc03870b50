package domain

import (
	"errors"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
)

// Códigos de rechazo del validador del libro de existencias.
const (
	CodeInsufficientStock          = "INSUFFICIENT_STOCK"
	CodeInvalidQuantity            = "INVALID_QUANTITY"
	CodeMissingAdjustmentReason    = "MISSING_ADJUSTMENT_REASON"
	CodeMissingSourceLocation      = "MISSING_SOURCE_LOCATION"
	CodeMissingDestinationLocation = "MISSING_DESTINATION_LOCATION"
	CodeMissingJustification       = "MISSING_JUSTIFICATION"
	CodeInvalidType                = "INVALID_TYPE"
	CodeInvalidReason              = "INVALID_REASON"
	CodeUnknownLocation            = "UNKNOWN_LOCATION"
	CodeSameLocation               = "SAME_LOCATION"
	CodeInvalidDate                = "INVALID_DATE"
	CodeTransferLeg                = "TRANSFER_LEG"
)

// FieldError rechazo asociado a un campo concreto de la entrada.
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationError agrupa los rechazos por campo de una operación.
// errors.Is(err, ErrInvalidInput) siempre es cierto; errors.Is(err, ErrInsufficientStock)
// lo es cuando alguno de los campos falló por falta de existencias.
type ValidationError struct {
	Fields []FieldError
}

// Add agrega un rechazo.
func (e *ValidationError) Add(field, code, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Code: code, Message: message})
}

// Empty indica si no hay rechazos.
func (e *ValidationError) Empty() bool {
	return e == nil || len(e.Fields) == 0
}

// Has indica si algún campo fue rechazado con el código dado.
func (e *ValidationError) Has(code string) bool {
	if e == nil {
		return false
	}
	for _, f := range e.Fields {
		if f.Code == code {
			return true
		}
	}
	return false
}

// Field devuelve el primer rechazo del campo indicado.
func (e *ValidationError) Field(name string) (FieldError, bool) {
	if e != nil {
		for _, f := range e.Fields {
			if f.Field == name {
				return f, true
			}
		}
	}
	return FieldError{}, false
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Field+": "+f.Message)
	}
	return "validación: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

func (e *ValidationError) Is(target error) bool {
	return target == ErrInsufficientStock && e.Has(CodeInsufficientStock)
}

// AsValidation extrae el ValidationError de una cadena de errores.
func AsValidation(err error) (*ValidationError, bool) {
	var v *ValidationError
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}
