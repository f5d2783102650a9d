package descriptor

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrNoEnvironment is returned when the document has no environment key.
var ErrNoEnvironment = errors.New("descriptor has no environment")

// FieldError is returned for a missing or invalid descriptor field. Field is
// the YAML path, e.g. environment.kubernetes.api-port.
type FieldError struct {
	Field  string
	Reason string
	Err    error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks required fields and unique service names. The first
// failure is returned as a *FieldError.
func Validate(doc *Document) error {
	err := validate.Struct(doc)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	return &FieldError{
		Field:  fieldPath(fe.Namespace()),
		Reason: reason(fe),
		Err:    fe,
	}
}

// fieldPath drops the root type name from a validator namespace.
func fieldPath(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "unique":
		return "names must be unique"
	case "ip":
		return fmt.Sprintf("%q is not a valid IP address", fe.Value())
	case "url":
		return fmt.Sprintf("%q is not a valid URL", fe.Value())
	case "min", "max":
		return fmt.Sprintf("must be %s %s", map[string]string{"min": ">=", "max": "<="}[fe.Tag()], fe.Param())
	}
	return fmt.Sprintf("failed %q validation", fe.Tag())
}
