package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate *validator.Validate
	once     sync.Once

	nationalIDPattern = regexp.MustCompile(`^\d{16}$`)
	phonePattern      = regexp.MustCompile(`^(\+?250|0)?7[2389]\d{7}$`)
)

// NationalID reports whether s is a 16 digit national id.
func NationalID(s string) bool { return nationalIDPattern.MatchString(s) }

// Phone reports whether s is a Rwandan mobile number.
func Phone(s string) bool { return phonePattern.MatchString(s) }

func GetValidator() *validator.Validate {
	once.Do(initValidator)
	return validate
}

func initValidator() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Report json names so messages match the request payload.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	_ = validate.RegisterValidation("nationalid", func(fl validator.FieldLevel) bool {
		return NationalID(fl.Field().String())
	})
	_ = validate.RegisterValidation("rwphone", func(fl validator.FieldLevel) bool {
		return Phone(fl.Field().String())
	})
}

// Struct validates s and flattens the failures into readable messages.
func Struct(s interface{}) []string {
	if err := GetValidator().Struct(s); err != nil {
		return ParseErrors(err)
	}
	return nil
}

func ParseErrors(err error) []string {
	var validationErrors validator.ValidationErrors
	ok := errors.As(err, &validationErrors)
	if !ok {
		return []string{"Unknown error"}
	}

	errs := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		errs = append(errs, prettyError(e))
	}

	return errs
}

func prettyError(e validator.FieldError) string {
	switch e.Tag() {
	case "required", "required_if":
		return e.Field() + " field is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", e.Field(), strings.ReplaceAll(e.Param(), " ", ", "))
	case "min":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("%s length must be greater than or equal to %s", e.Field(), e.Param())
		}
		return fmt.Sprintf("%s must be greater than or equal to %s", e.Field(), e.Param())
	case "max":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("%s cannot be more than %s characters", e.Field(), e.Param())
		}
		return fmt.Sprintf("%s must be less than or equal to %s", e.Field(), e.Param())
	case "email":
		return e.Field() + " must be a valid email"
	case "nationalid":
		return e.Field() + " must be exactly 16 digits"
	case "rwphone":
		return e.Field() + " must be a valid Rwandan phone number"
	default:
		return e.Error()
	}
}
