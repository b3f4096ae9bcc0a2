package router

import (
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"toiletadvisor/internal/errors"
)

const minPasswordLength = 8

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator builds a validator that reports fields by their JSON names and
// understands the "password" tag.
func NewValidator() *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(errors.JSONTagName)
	if err := v.RegisterValidation("password", validatePassword); err != nil {
		panic(err)
	}
	return &CustomValidator{validator: v}
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// validatePassword requires at least 8 characters with an uppercase letter,
// a lowercase letter and a digit.
func validatePassword(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if utf8.RuneCountInString(s) < minPasswordLength {
		return false
	}
	var upper, lower, digit bool
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		}
	}
	return upper && lower && digit
}
