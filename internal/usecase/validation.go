package usecase

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/xavierca1/autoseller/internal/entity"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var (
	validate  = newValidator()
	nonDigits = regexp.MustCompile(`\D`)
)

func newValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("sales_stage", func(fl validator.FieldLevel) bool {
		_, ok := entity.ParseSalesStage(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("message_type", func(fl validator.FieldLevel) bool {
		return entity.MessageType(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("phone_digits", func(fl validator.FieldLevel) bool {
		return isValidPhoneNumber(fl.Field().String())
	})

	return v
}

// ValidateStruct roda as tags `validate` e devolve um erro por campo.
func ValidateStruct(input any) []ValidationError {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []ValidationError{{Field: "input", Message: err.Error()}}
	}

	out := make([]ValidationError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, ValidationError{Field: fieldPath(fe), Message: messageFor(fe)})
	}
	return out
}

func validationFailed(errs []ValidationError) error {
	msg := "validation failed: "
	for i, e := range errs {
		if i > 0 {
			msg += ", "
		}
		msg += e.Field + " (" + e.Message + ")"
	}
	return &DomainError{Code: CodeValidation, Message: msg}
}

func check(input any) error {
	if errs := ValidateStruct(input); len(errs) > 0 {
		return validationFailed(errs)
	}
	return nil
}

// fieldPath remove o nome da struct: "SaveFlowInput.steps[0].type" -> "steps[0].type".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "is invalid"
	case "url":
		return "must be a valid URL"
	case "min":
		return "must have at least " + fe.Param() + " characters"
	case "max":
		return "must not exceed " + fe.Param()
	case "gte":
		return "must be >= " + fe.Param()
	case "lte":
		return "must be <= " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	case "sales_stage":
		return "must be a valid sales stage"
	case "message_type":
		return "must be text, image, audio or video"
	case "phone_digits":
		return "must be a valid phone number"
	}
	return "is invalid"
}

func isValidPhoneNumber(phone string) bool {
	cleaned := nonDigits.ReplaceAllString(phone, "")
	return len(cleaned) >= 8 && len(cleaned) <= 15
}
