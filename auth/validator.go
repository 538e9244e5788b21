package auth

import (
	"fmt"
	"pawmatch/errors"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// A password needs this many of: lowercase, uppercase, digit, symbol.
const passwordClasses = 3

var validate = newValidator()

type RegisterRequest struct {
	Email    string `validate:"required,email,max=254"`
	Password string `validate:"required,min=12,max=72,passphrase"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("passphrase", func(fl validator.FieldLevel) bool {
		return characterClasses(fl.Field().String()) >= passwordClasses
	})
	v.RegisterStructValidation(passwordAvoidsEmail, RegisterRequest{})
	return v
}

// passwordAvoidsEmail rejects a password built around the name of the account email.
func passwordAvoidsEmail(sl validator.StructLevel) {
	r := sl.Current().Interface().(RegisterRequest)
	name, _, _ := strings.Cut(NormalizeEmail(r.Email), "@")
	if len(name) >= 4 && strings.Contains(strings.ToLower(r.Password), name) {
		sl.ReportError(r.Password, "Password", "Password", "notemail", "")
	}
}

// NormalizeEmail is the form under which accounts are stored and looked up.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateRegister runs before any hashing. A rejected password is
// ErrInvalidPassword, any other failure ErrInvalidArgument.
func ValidateRegister(req RegisterRequest) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var failures validator.ValidationErrors
	if errors.As(err, &failures) {
		for _, failure := range failures {
			if failure.Field() == "Password" {
				return fmt.Errorf("%w: %s rule", errors.ErrInvalidPassword, failure.Tag())
			}
		}
	}
	return fmt.Errorf("%w: %v", errors.ErrInvalidArgument, err)
}

// ValidateStruct applies the validate tags of a request DTO, failures are ErrInvalidArgument.
func ValidateStruct(v any) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidArgument, err)
	}
	return nil
}

func characterClasses(s string) int {
	var lower, upper, digit, symbol bool
	for _, r := range s {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r) || unicode.IsSpace(r):
			symbol = true
		}
	}
	count := 0
	for _, present := range []bool{lower, upper, digit, symbol} {
		if present {
			count++
		}
	}
	return count
}
