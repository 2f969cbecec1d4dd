package service

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/domain/apperr"
	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/domain/entity"
	"github.com/go-playground/validator/v10"
)

var (
	phonePattern    = regexp.MustCompile(`^(\+998|998|8)?[0-9]{9}$`)
	codePattern     = regexp.MustCompile(`^[0-9]{6}$`)
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.]{3,30}$`)
)

var validate = newValidator()

// matchPattern accepts the empty string so the tag composes with required.
func matchPattern(pattern *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		return value == "" || pattern.MatchString(value)
	}
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		if name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]; name != "" && name != "-" {
			return name
		}
		runes := []rune(field.Name)
		runes[0] = unicode.ToLower(runes[0])
		return string(runes)
	})

	custom := map[string]validator.Func{
		"phone":    matchPattern(phonePattern),
		"code":     matchPattern(codePattern),
		"username": matchPattern(usernamePattern),
		"gearbox": func(fl validator.FieldLevel) bool {
			return entity.Gearbox(fl.Field().String()).Valid()
		},
		"tinting": func(fl validator.FieldLevel) bool {
			value := fl.Field().String()
			return value == entity.TintingYes || value == entity.TintingNo
		},
		"payment": func(fl validator.FieldLevel) bool {
			return entity.PaymentMethod(fl.Field().String()).Valid()
		},
	}
	for tag, fn := range custom {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("register %s validation: %v", tag, err))
		}
	}
	return v
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isNumberKind(kind reflect.Kind) bool {
	switch kind {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func fieldMessage(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return "please provide a valid email"
	case "phone":
		return "please provide a valid phone number"
	case "code":
		return "code must be exactly 6 digits"
	case "username":
		return "username must be 3-30 letters, digits, dots or underscores"
	case "gearbox":
		return "gearbox must be one of Manual, Automatic, CVT"
	case "tinting":
		return fmt.Sprintf("tinting must be %q or %q", entity.TintingYes, entity.TintingNo)
	case "payment":
		return "paymentMethod must be one of credit_card, bank_transfer, cash"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "min":
		switch {
		case isNumberKind(fe.Kind()):
			return fmt.Sprintf("%s must be at least %s", field, fe.Param())
		case fe.Param() == "1":
			return fmt.Sprintf("%s must not be empty", field)
		case fe.Kind() == reflect.Slice:
			return fmt.Sprintf("%s must contain at least %s items", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		if isNumberKind(fe.Kind()) {
			return fmt.Sprintf("%s must be at most %s", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	}
	return fmt.Sprintf("%s is invalid", field)
}

// fieldPath drops the struct name from a namespace such as
// "CheckoutInput.shippingAddress.city".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func translate(err error, label string) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("validation failed: %w", err)
	}
	fe := fieldErrs[0]
	if label == "" {
		label = fieldPath(fe)
	}
	return apperr.Validation(fieldMessage(label, fe))
}

// validateStruct runs the validate tags of s and reports the first failure
// as a validation error.
func validateStruct(s interface{}) error {
	if err := validate.Struct(s); err != nil {
		return translate(err, "")
	}
	return nil
}

// validateValue checks a single value against tag, naming it label in the message.
func validateValue(label string, value interface{}, tag string) error {
	if err := validate.Var(value, tag); err != nil {
		return translate(err, label)
	}
	return nil
}

func validatePassword(password string) error {
	return validateValue("password", password, "min=6")
}

func validateCode(code string) error {
	return validateValue("code", code, "required,code")
}
