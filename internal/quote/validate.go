package quote

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Decimals are compared through their float value so gte/lte tags work on money fields.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		d, ok := field.Interface().(decimal.Decimal)
		if !ok {
			return nil
		}

		f, _ := d.Float64()

		return f
	}, decimal.Decimal{})

	_ = v.RegisterValidation("quote_status", func(fl validator.FieldLevel) bool {
		return Status(fl.Field().String()).Valid()
	})

	return v
}

// Validate checks field constraints on q and that line positions are unique.
func Validate(q *Quote) error {
	if err := checkStruct(q); err != nil {
		return err
	}

	seen := make(map[int]struct{}, len(q.Items))
	for _, item := range q.Items {
		if _, dup := seen[item.Position]; dup {
			return fmt.Errorf("%w: duplicate position %d", ErrInvalid, item.Position)
		}

		seen[item.Position] = struct{}{}
	}

	return nil
}

func checkStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return fmt.Errorf("%w: %s failed on %q", ErrInvalid, verrs[0].Namespace(), verrs[0].Tag())
	}

	return fmt.Errorf("%w: %v", ErrInvalid, err)
}
