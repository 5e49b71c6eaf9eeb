// Package validation wraps go-playground/validator with a process-wide
// instance, library-specific rules and errors that match
// common.ErrorValidation.
//
//	type issueRequest struct {
//	    BookID   string `json:"book_id" validate:"required,uuid"`
//	    MemberID string `json:"member_id" validate:"required,uuid"`
//	}
//
//	if err := validation.ValidateStruct(&req); err != nil {
//	    // errors.Is(err, common.ErrorValidation) == true
//	}
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/dmitrijs2005/libris/internal/common"
	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError describes one field that failed validation.
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// Error is returned by ValidateStruct. It matches common.ErrorValidation
// under errors.Is.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return strings.Join(msgs, "; ")
}

func (e *Error) Unwrap() error { return common.ErrorValidation }

// Validator returns the shared instance, creating it on first use.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(jsonFieldName)
		_ = v.RegisterValidation("isbn", validateISBN)
		_ = v.RegisterValidation("elevated_role", validateElevatedRole)
		validate = v
	})
	return validate
}

// ValidateStruct validates s and translates failures into *Error.
func ValidateStruct(s any) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}

	out := &Error{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Message: message(fe),
		})
	}
	return out
}

func jsonFieldName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "uuid":
		return fmt.Sprintf("%s must be a valid identifier", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "ltefield":
		return fmt.Sprintf("%s must not exceed %s", fe.Field(), fe.Param())
	case "isbn":
		return fmt.Sprintf("%s must be a 10 or 13 digit ISBN", fe.Field())
	case "elevated_role":
		return "Invalid role request"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}

// validateISBN accepts ISBN-10 (last char may be X) and ISBN-13, ignoring
// hyphens and spaces. Check digits are not verified.
func validateISBN(fl validator.FieldLevel) bool {
	s := strings.NewReplacer("-", "", " ", "").Replace(fl.Field().String())
	switch len(s) {
	case 10:
		for i, r := range s {
			if r >= '0' && r <= '9' {
				continue
			}
			if i == 9 && (r == 'X' || r == 'x') {
				continue
			}
			return false
		}
		return true
	case 13:
		for _, r := range s {
			if r < '0' || r > '9' {
				return false
			}
		}
		return true
	}
	return false
}

func validateElevatedRole(fl validator.FieldLevel) bool {
	switch strings.ToUpper(fl.Field().String()) {
	case "ADMIN", "LIBRARIAN":
		return true
	}
	return false
}
