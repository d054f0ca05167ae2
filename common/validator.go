package common

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateStruct checks the validate tags on a request payload and maps any
// violation onto ErrInvalidInput so callers can match it with errors.Is.
func ValidateStruct(payload interface{}) error {
	if err := validate.Struct(payload); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			return fmt.Errorf("%w: %s", ErrInvalidInput, validationErrors.Error())
		}
		return fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
	}
	return nil
}
