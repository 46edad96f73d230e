package chi

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

var tagReasons = map[string]string{
	"max":   "too_long",
	"oneof": "unsupported_value",
}

// violations converts a validator error into per-field violations.
// ok is false for errors that are not field validation failures.
func violations(err error) ([]Violation, bool) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, false
	}
	out := make([]Violation, 0, len(verrs))
	for _, fe := range verrs {
		reason := tagReasons[fe.Tag()]
		if reason == "" {
			reason = "invalid"
		}
		out = append(out, Violation{Field: fieldPath(fe), Reason: reason})
	}
	return out, true
}

// fieldPath drops the root struct name and embedded struct names from the namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		ns = rest
	}
	ns = strings.TrimPrefix(ns, "RecordBody.")
	if ns == "" {
		return fe.Field()
	}
	return ns
}
