package http

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/jhoicas/bakery-stock-api/internal/domain"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// requestValidator validador compartido; reporta los campos con su nombre JSON (o query).
func requestValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				name = strings.SplitN(fld.Tag.Get("query"), ",", 2)[0]
			}
			return name
		})
	})
	return validate
}

// validateRequest valida las etiquetas `validate` de in. Devuelve *domain.ValidationError
// con un FieldError por regla incumplida.
func validateRequest(in any) error {
	err := requestValidator().Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &domain.ValidationError{}
	for _, e := range verrs {
		out.Add(fieldPath(e), "INVALID_"+strings.ToUpper(e.Tag()), validationMessage(e))
	}
	return out
}

// fieldPath ruta del campo sin el nombre del struct raíz (ids[2], no BulkIDsRequest.ids[2]).
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return e.Field()
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "campo requerido"
	case "uuid":
		return "debe ser un UUID"
	case "min":
		if e.Kind() == reflect.String {
			return "mínimo " + e.Param() + " caracteres"
		}
		return "mínimo " + e.Param()
	case "max":
		if e.Kind() == reflect.String {
			return "máximo " + e.Param() + " caracteres"
		}
		return "máximo " + e.Param()
	case "oneof":
		return "debe ser uno de: " + e.Param()
	case "datetime":
		return "formato de fecha esperado " + e.Param()
	default:
		return "valor inválido"
	}
}
