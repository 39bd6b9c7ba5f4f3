package models

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// DateLayouts are the accepted input formats for date fields.
var DateLayouts = []string{time.RFC3339, "2006-01-02"}

var validate = newValidator()

type enum interface {
	Valid() bool
}

func newValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})

	_ = v.RegisterValidation("enum", func(fl validator.FieldLevel) bool {
		e, ok := fl.Field().Interface().(enum)
		return ok && e.Valid()
	})
	_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		_, err := ParseDate(fl.Field().String())
		return err == nil
	})

	return v
}

// ParseDate parses an RFC 3339 timestamp or a plain YYYY-MM-DD date (UTC).
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range DateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// validateStruct runs the struct tags and returns every failing field keyed by
// its JSON path, e.g. "items.0.level".
func validateStruct(s interface{}) map[string]string {
	errors := make(map[string]string)

	err := validate.Struct(s)
	if err == nil {
		return errors
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		errors["body"] = "Invalid request body"
		return errors
	}
	for _, fe := range verrs {
		field := fieldPath(fe.Namespace())
		if _, seen := errors[field]; seen {
			continue
		}
		errors[field] = fieldMessage(field, fe)
	}
	return errors
}

var pathReplacer = strings.NewReplacer("[", ".", "]", "")

func fieldPath(namespace string) string {
	// Drop the top-level struct name.
	if i := strings.Index(namespace, "."); i >= 0 {
		namespace = namespace[i+1:]
	}
	return pathReplacer.Replace(namespace)
}

func fieldMessage(field string, fe validator.FieldError) string {
	kind := fe.Kind()
	if kind == reflect.Ptr {
		kind = fe.Type().Elem().Kind()
	}
	isString := kind == reflect.String

	switch tag := fe.Tag(); {
	case tag == "required":
		return fmt.Sprintf("%s is required", field)
	case tag == "min":
		if isString {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case tag == "max":
		if isString {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case tag == "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case strings.Contains(tag, "url"):
		return fmt.Sprintf("%s must be a valid URL", field)
	case strings.HasPrefix(tag, "isodate"):
		return fmt.Sprintf("%s must be a date (YYYY-MM-DD or RFC 3339)", field)
	case tag == "enum":
		if v, ok := fe.Value().(interface{ Values() []string }); ok {
			return fmt.Sprintf("%s must be one of: %s", field, strings.Join(v.Values(), ", "))
		}
		return fmt.Sprintf("%s has an unsupported value", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
