package handlers

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/SscSPs/momo_backend/internal/utils"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var registerValidatorsOnce sync.Once

// registerValidators teaches gin's validator about decimal amounts and makes
// it report JSON field names.
func registerValidators() {
	registerValidatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return fld.Name
		})

		v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
			if d, ok := field.Interface().(decimal.Decimal); ok {
				return d.String()
			}
			return nil
		}, decimal.Decimal{})

		_ = v.RegisterValidation("money", validateMoney)
	})
}

// validateMoney accepts positive amounts with at most two fraction digits.
func validateMoney(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	return utils.IsValidAmount(d)
}

func fieldErrors(verrs validator.ValidationErrors) map[string][]string {
	out := make(map[string][]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = append(out[fe.Field()], fieldMessage(fe))
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ReplaceAll(fe.Field(), "_", " ")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", field)
	case "money":
		return fmt.Sprintf("The %s must be greater than 0 and at most %s, with at most two decimals.", field, utils.FormatAmount(utils.MaxAmount))
	case "len":
		return fmt.Sprintf("The %s must be %s characters.", field, fe.Param())
	case "numeric":
		return fmt.Sprintf("The %s must contain only digits.", field)
	case "max":
		return fmt.Sprintf("The %s may not be greater than %s.", field, fe.Param())
	case "min":
		return fmt.Sprintf("The %s must be at least %s.", field, fe.Param())
	default:
		return fmt.Sprintf("The %s is invalid.", field)
	}
}
