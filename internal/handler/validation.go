// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator reports field names by their json tag so errors line up
// with form field names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// FieldErrors maps form field names to messages. Nested fields use their
// full path, e.g. "items[0].name".
type FieldErrors map[string]string

// Any reports whether there are errors.
func (fe FieldErrors) Any() bool {
	return len(fe) > 0
}

// validateInput validates v against its validate tags.
func validateInput(v any) FieldErrors {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FieldErrors{"_": "Dados inválidos"}
	}

	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		key := fieldKey(fe.Namespace())
		if _, exists := out[key]; !exists {
			out[key] = fieldMessage(fe)
		}
	}
	return out
}

// fieldKey drops the top-level struct name from a validator namespace.
func fieldKey(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		if fe.Kind() == reflect.Slice {
			return "Adicione pelo menos um item"
		}
		return "Campo obrigatório"
	case "email":
		return "Email inválido"
	case "numeric":
		return "Use apenas números"
	case "oneof":
		return "Opção inválida"
	case "min":
		switch fe.Kind() {
		case reflect.String:
			return fmt.Sprintf("Mínimo de %s caracteres", fe.Param())
		case reflect.Slice:
			return fmt.Sprintf("Adicione pelo menos %s item(ns)", fe.Param())
		default:
			return fmt.Sprintf("Valor mínimo: %s", fe.Param())
		}
	case "max":
		switch fe.Kind() {
		case reflect.String:
			return fmt.Sprintf("Máximo de %s caracteres", fe.Param())
		case reflect.Slice:
			return fmt.Sprintf("No máximo %s item(ns)", fe.Param())
		default:
			return fmt.Sprintf("Valor máximo: %s", fe.Param())
		}
	default:
		return "Valor inválido"
	}
}
