// Package validator wraps go-playground/validator behind a single
// ValidateStruct call so services report tag failures without depending on
// the library's error types directly.
package validator

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ErrorResponse describes one failed struct tag.
type ErrorResponse struct {
	FailedField string
	Tag         string
	Value       string
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// uuid.UUID zero value passes "required", so id fields use this instead.
	_ = v.RegisterValidation("uuid_required", func(fl validator.FieldLevel) bool {
		id, ok := fl.Field().Interface().(uuid.UUID)
		return ok && id != uuid.Nil
	})
	return v
}

// ValidateStruct checks data against its validate tags and returns one entry
// per failed field, or nil when everything passes.
func ValidateStruct(data any) []ErrorResponse {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []ErrorResponse{{FailedField: "input", Tag: "invalid"}}
	}

	out := make([]ErrorResponse, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, ErrorResponse{
			FailedField: fe.StructNamespace(),
			Tag:         fe.Tag(),
			Value:       fe.Param(),
		})
	}
	return out
}
