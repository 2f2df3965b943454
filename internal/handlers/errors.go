package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/crucial707/todoism/internal/auth"
	"github.com/crucial707/todoism/internal/repo"
	"github.com/crucial707/todoism/internal/respond"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	// bcrypt hashes at most MaxPasswordBytes bytes; max= counts runes.
	if err := v.RegisterValidation("bcrypt", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= auth.MaxPasswordBytes
	}); err != nil {
		panic(err)
	}
	return v
}

// validationFields flattens validator errors into field -> message.
func validationFields(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"_": err.Error()}
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			fields[fe.Field()] = "is required"
		case "max":
			fields[fe.Field()] = fmt.Sprintf("must be at most %s characters", fe.Param())
		case "bcrypt":
			fields[fe.Field()] = fmt.Sprintf("must be at most %d bytes", auth.MaxPasswordBytes)
		case "min":
			fields[fe.Field()] = fmt.Sprintf("must be at least %s characters", fe.Param())
		default:
			fields[fe.Field()] = "is invalid"
		}
	}
	return fields
}

// fail maps repository errors to responses. Anything unexpected is a 500.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		respond.Error(w, r, http.StatusNotFound, "Item not found.")
	default:
		respond.Internal(w, r, err)
	}
}

// badRequest answers 400 with a translated message.
func badRequest(w http.ResponseWriter, r *http.Request, message string) {
	respond.Error(w, r, http.StatusBadRequest, message)
}
