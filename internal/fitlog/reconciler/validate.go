package reconciler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	})
	return v
}

func validateWorkout(wc WorkoutCompletion) error {
	err := validate.Struct(wc)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		if fe.Tag() == "required" {
			return missingField(fe.Field())
		}
		return fmt.Errorf("%w: invalid field: %s", ErrInvalidInput, fe.Field())
	}
	return fmt.Errorf("%w: %s", ErrInvalidInput, err)
}
