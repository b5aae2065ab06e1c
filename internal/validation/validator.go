// Package validation validates decoded request bodies and renders field errors.
package validation

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterAlias("pwd", "min=6,max=72")
	return v
}

// Struct validates s using its `validate` tags.
func Struct(s any) error {
	return validate.Struct(s)
}

// ToDetails converts decode and validation errors into a map[field]message
// suitable for the "details" member of an error response.
func ToDetails(err error) map[string]string {
	if err == nil {
		return nil
	}

	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	if errors.As(err, &se) || errors.As(err, &ute) {
		return map[string]string{"payload": "JSON inválido"}
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			out[fe.Field()] = formatFieldError(fe)
		}
		return out
	}

	return map[string]string{"payload": "conteúdo inválido"}
}

func formatFieldError(fe validator.FieldError) string {
	param := fe.Param()

	switch fe.Tag() {
	case "required":
		return "é obrigatório"
	case "email":
		return "deve ser um email válido"
	case "url", "http_url":
		return "deve ser uma URL válida"
	case "min":
		return "deve ter pelo menos " + param + " caracteres"
	case "max":
		return "deve ter no máximo " + param + " caracteres"
	case "pwd":
		return "deve ter entre 6 e 72 caracteres"
	case "oneof":
		return "deve ser um de: " + strings.Join(strings.Fields(param), ", ")
	case "gt":
		return "deve ser maior que " + param
	case "numeric":
		return "deve ser numérico"
	default:
		return "inválido (" + fe.Tag() + ")"
	}
}
