package models

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/mgichure/EMIS/internal/common"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks struct tags on an entity before it reaches the store.
// Failures wrap common.ErrValidation so callers can match with errors.Is.
func Validate(v any) error {
	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return fmt.Errorf("%w: %s", common.ErrValidation, verrs.Error())
		}
		return fmt.Errorf("%w: %s", common.ErrValidation, err.Error())
	}
	return nil
}
