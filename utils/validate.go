package utils

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/stayease-dev/stayease/backend/access"
)

var validate = validator.New()

// ValidateStruct runs the payload's validate tags and folds any failure
// into the ValidationFailed kind with the first offending field named.
func ValidateStruct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		return fmt.Errorf("%w: invalid %s", access.ErrValidationFailed, errs[0].Namespace())
	}
	return fmt.Errorf("%w: %v", access.ErrValidationFailed, err)
}
