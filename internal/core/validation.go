// AngelaMos | 2026
// validation.go

package core

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	PasswordMinLength = 8
	PasswordMaxLength = 16
	PasswordSpecials  = "!@#$%^&*"

	NameMinLength    = 20
	NameMaxLength    = 60
	AddressMaxLength = 400

	RatingMin = 1
	RatingMax = 5
)

const passwordPolicyMessage = "password must be 8-16 characters and include " +
	"at least one uppercase letter and one special character (!@#$%^&*)"

// ValidPassword reports whether password satisfies the account password policy.
func ValidPassword(password string) bool {
	n := utf8.RuneCountInString(password)
	if n < PasswordMinLength || n > PasswordMaxLength {
		return false
	}

	var hasUpper, hasSpecial bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case strings.ContainsRune(PasswordSpecials, r):
			hasSpecial = true
		}
	}

	return hasUpper && hasSpecial
}

// ValidID reports whether s is a well-formed entity id.
func ValidID(s string) bool {
	return uuid.Validate(s) == nil
}

// NewValidator returns a validator that reports JSON field names and knows
// the password tag.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	//nolint:errcheck // tag name is static and valid
	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return ValidPassword(fl.Field().String())
	})

	return v
}

func FormatValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid request"
	}

	fe := verrs[0]
	field := fe.Field()

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "password":
		return passwordPolicyMessage
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "uuid", "uuid4":
		return fmt.Sprintf("%s must be a valid id", field)
	case "min", "max":
		return formatBounds(fe)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func formatBounds(fe validator.FieldError) string {
	field := fe.Field()

	if fe.Kind() == reflect.String {
		switch field {
		case "name":
			return fmt.Sprintf(
				"name must be between %d and %d characters",
				NameMinLength, NameMaxLength,
			)
		case "address":
			return fmt.Sprintf(
				"address must be at most %d characters",
				AddressMaxLength,
			)
		}
		if fe.Tag() == "min" {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	}

	if field == "ratingValue" {
		return fmt.Sprintf("ratingValue must be between %d and %d", RatingMin, RatingMax)
	}
	if fe.Tag() == "min" {
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	}
	return fmt.Sprintf("%s must be at most %s", field, fe.Param())
}
