package pricing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidationError lists the fields that failed client-side validation.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid pricing config: " + strings.Join(e.Fields, ", ")
}

// Validate checks cfg before it is sent to the backend.
func Validate(cfg Config) error {
	var fields []string

	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("validate pricing config: %w", err)
		}
		for _, fe := range verrs {
			fields = append(fields, fmt.Sprintf("%s (%s)", fieldPath(fe.Namespace()), fe.Tag()))
		}
	}

	for i, bc := range cfg.BaseConfigurations {
		if bc.UnitPrice.IsNegative() {
			fields = append(fields, fmt.Sprintf("baseConfigurations[%d].unitPrice (gte=0)", i))
		}
		if bc.CustomValue != nil && bc.Type != ConfigTypeCustom {
			fields = append(fields, fmt.Sprintf("baseConfigurations[%d].customValue (custom only)", i))
		}
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// fieldPath turns "Config.Options[0].Name" into "options[0].name".
func fieldPath(ns string) string {
	_, rest, ok := strings.Cut(ns, ".")
	if !ok {
		rest = ns
	}
	parts := strings.Split(rest, ".")
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToLower(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, ".")
}
