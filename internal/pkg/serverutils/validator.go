package serverutils

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// Field messages of the sign-up form, keyed by "<field>.<tag>".
var fieldMessages = map[string]string{
	"name.required":              "이름은 필수값 입니다.",
	"user_ident.required":        "이메일은 필수값 입니다.",
	"user_ident.email":           "유효한 이메일을 입력해 주세요.",
	"password.required":          "비밀번호는 필수값 입니다.",
	"password.min":               "비밀번호는 최소 6자 이상이어야 합니다.",
	"password.password_strength": "비밀번호에 소문자, 대문자, 숫자, 특수문자가 포함되어야 합니다.",
	"confirmPassword.required":   "비밀번호 확인은 필수값 입니다.",
	"confirmPassword.eqfield":    "입력한 비밀번호와 일치하지 않습니다.",
}

type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "Validation failed"
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("password_strength", passwordStrength)
	return v
}

// PasswordStrong needs a lower case letter, an upper case letter, a digit
// and a character that is none of those.
func PasswordStrong(password string) bool {
	var lower, upper, digit, special bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		default:
			special = true
		}
	}
	return lower && upper && digit && special
}

func passwordStrength(fl validator.FieldLevel) bool {
	return PasswordStrong(fl.Field().String())
}

// ValidateRequest validates req by its `validate` tags. Failures come back
// as *ValidationError with one message per json field name.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	fields := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		if _, seen := fields[fe.Field()]; seen {
			continue
		}
		msg, ok := fieldMessages[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = fe.Field() + " is invalid"
		}
		fields[fe.Field()] = msg
	}
	return &ValidationError{Fields: fields}
}
