package validator

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// ContactPattern matches a contact number of exactly ten decimal digits.
	ContactPattern = regexp.MustCompile(`^\d{10}$`)
	// EmailPattern is deliberately loose: something@something.something without whitespace.
	EmailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)
)

var validate *validator.Validate

var messages = map[string]string{
	"required": "is required",
	"contact":  "must be a 10 digit number",
	"email":    "must be a valid email",
	"max":      "is too long",
}

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their wire name instead of the Go field name.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"form", "json"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})

	_ = validate.RegisterValidation("contact", func(fl validator.FieldLevel) bool {
		return ContactPattern.MatchString(fl.Field().String())
	})
	_ = validate.RegisterValidation("email", func(fl validator.FieldLevel) bool {
		return EmailPattern.MatchString(fl.Field().String())
	})
}

// Validate struct fields. Returns nil when v is valid, otherwise field name -> message.
func Validate(v interface{}) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"_": err.Error()}
	}

	errors := make(map[string]string, len(verrs))
	for _, err := range verrs {
		errors[err.Field()] = Message(err.Tag())
	}
	return errors
}

// Message returns the human-readable message for a validation tag.
func Message(tag string) string {
	if m, ok := messages[tag]; ok {
		return m
	}
	return "is invalid"
}
