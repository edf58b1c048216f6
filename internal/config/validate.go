package config

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator checks merged settings and reports problems by flag name.
type Validator struct {
	v *validator.Validate
}

// NewValidator creates a validator that names fields after their flag tag.
func NewValidator() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name := fld.Tag.Get("flag"); name != "" {
			return name
		}
		return fld.Name
	})
	return &Validator{v: v}
}

// Validate returns nil or an error with one line per invalid field.
func (v *Validator) Validate(s any) error {
	if err := v.v.Struct(s); err != nil {
		return v.formatError(err)
	}
	return nil
}

func (v *Validator) formatError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}
	lines := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		lines = append(lines, fmt.Sprintf("--%s %s", flagName(e), friendlyMessage(e)))
	}
	sort.Strings(lines)
	return errors.New(strings.Join(lines, "\n"))
}

// flagName strips the slice index from dive errors, "sheet[1]" becomes "sheet".
func flagName(e validator.FieldError) string {
	name := e.Field()
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	return name
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "must not be empty"
	case "url":
		return "must be a valid URL"
	case "gte":
		return "must be >= " + e.Param()
	case "lte":
		return "must be <= " + e.Param()
	default:
		return "is invalid"
	}
}
