// Package validation holds the field rules for recipes, tags, ingredients
// and users, and a struct validator that applies them through tags.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	domainerrors "github.com/foodgramapp/foodgram-server/internal/errors"
)

// stringRules maps custom validator tags to the pure rule behind them.
var stringRules = map[string]func(string) (string, error){
	"color7":          Color,
	"tag_name":        TagName,
	"recipe_name":     RecipeName,
	"ingredient_name": IngredientName,
	"person_name":     PersonName,
	"username":        Username,
}

// Validator wraps go-playground/validator with domain error conversion.
type Validator struct {
	v *validator.Validate
}

// New creates a validator with JSON field names and the custom rule tags.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := fld.Tag.Get("json")
		if name == "" {
			return fld.Name
		}
		name, _, _ = strings.Cut(name, ",")
		if name == "-" {
			return fld.Name
		}
		return name
	})

	for tag, rule := range stringRules {
		rule := rule
		// Registration only fails on an empty tag or nil func.
		_ = v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			_, err := rule(fl.Field().String())
			return err == nil
		})
	}

	return &Validator{v: v}
}

// Validate validates a struct and returns a domain validation error
// whose details map each failing field to a message.
func (v *Validator) Validate(s any) error {
	if err := v.v.Struct(s); err != nil {
		return formatError(err)
	}
	return nil
}

func formatError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	fieldErrors := make(map[string]string, len(validationErrs))
	for _, e := range validationErrs {
		fieldErrors[fieldPath(e)] = friendlyMessage(e)
	}

	return domainerrors.ValidationWithDetails("validation failed", fieldErrors)
}

// fieldPath drops the root struct name, e.g. "ingredients[1].amount".
func fieldPath(e validator.FieldError) string {
	_, path, found := strings.Cut(e.Namespace(), ".")
	if !found {
		return e.Field()
	}
	return path
}

func friendlyMessage(e validator.FieldError) string {
	if rule, ok := stringRules[e.Tag()]; ok {
		_, err := rule(fmt.Sprint(e.Value()))
		var fe *FieldError
		if errors.As(err, &fe) {
			return fe.Message
		}
	}

	numeric := false
	switch e.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		numeric = true
	}

	switch e.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		switch {
		case numeric:
			return "must be at least " + e.Param()
		case e.Kind() == reflect.Slice:
			return fmt.Sprintf("must contain at least %s item(s)", e.Param())
		}
		return fmt.Sprintf("must be at least %s characters", e.Param())
	case "max":
		if numeric {
			return "must not exceed " + e.Param()
		}
		return fmt.Sprintf("must not exceed %s characters", e.Param())
	case "unique":
		return "must not contain duplicates"
	case "oneof":
		return "must be one of: " + e.Param()
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	default:
		return "is invalid"
	}
}

// AsDomainError converts a *FieldError from a rule into a domain
// validation error keyed by field. Other errors are returned unchanged.
func AsDomainError(err error) error {
	var fe *FieldError
	if errors.As(err, &fe) {
		return domainerrors.ValidationWithDetails(fe.Message, map[string]string{fe.Field: fe.Message})
	}
	return err
}
