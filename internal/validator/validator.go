// Package validator wraps go-playground/validator with the enum tags used by
// the building inputs and converts failures into apperr validation errors.
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"BERTool/internal/apperr"
	"BERTool/internal/calc/tables"

	"github.com/go-playground/validator/v10"
)

// FieldError describes one failed field in a validation error's details.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
	Value string `json:"value"`
}

type Validator struct {
	v *validator.Validate
}

// New creates a Validator with the building_type, epoch, country and
// heating_system tags registered. Field names in errors follow json tags.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	must(v.RegisterValidation("building_type", func(fl validator.FieldLevel) bool {
		return tables.BuildingType(fl.Field().String()).Valid()
	}))
	must(v.RegisterValidation("epoch", func(fl validator.FieldLevel) bool {
		return tables.Epoch(fl.Field().String()).Valid()
	}))
	must(v.RegisterValidation("country", func(fl validator.FieldLevel) bool {
		return tables.Country(fl.Field().String()).Valid()
	}))
	must(v.RegisterValidation("heating_system", func(fl validator.FieldLevel) bool {
		return tables.HeatingSystem(fl.Field().String()).Valid()
	}))
	return &Validator{v: v}
}

// Struct validates s and returns an *apperr.Error of kind Validation that
// lists every failed field.
func (val *Validator) Struct(s interface{}) error {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Wrap(apperr.KindInternal, "validation failed", err)
	}
	fields := make([]FieldError, 0, len(verrs))
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{
			Field: fe.Namespace(),
			Rule:  fe.Tag(),
			Param: fe.Param(),
			Value: fmt.Sprint(fe.Value()),
		})
		msgs = append(msgs, describe(fe))
	}
	return apperr.New(apperr.KindValidation, strings.Join(msgs, "; ")).WithDetails(fields)
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "gt":
		return fmt.Sprintf("%s must be > %s", field, fe.Param())
	case "gte", "min":
		return fmt.Sprintf("%s must be >= %s", field, fe.Param())
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "building_type", "epoch", "country", "heating_system":
		return fmt.Sprintf("%s: unknown %s %q", field, strings.ReplaceAll(fe.Tag(), "_", " "), fmt.Sprint(fe.Value()))
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
