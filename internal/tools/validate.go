package tools

import (
	"fmt"
	"math"
	"sort"

	"go.uber.org/multierr"
)

// Validate checks args against the schema: required arguments are present,
// present arguments have the declared type, enum members and minimums hold.
// Arguments the schema does not declare are ignored. All violations are
// reported together, in argument name order.
func (s ToolSchema) Validate(args Args) error {
	var errs error

	for _, name := range s.Required {
		if !args.Has(name) {
			errs = multierr.Append(errs, fmt.Errorf("%w: %s", ErrMissingRequiredArg, name))
		}
	}

	names := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if !args.Has(name) {
			continue
		}
		errs = multierr.Append(errs, s.Properties[name].check(name, args[name]))
	}
	return errs
}

func (p Property) check(name string, value any) error {
	if !matchesType(p.Type, value) {
		return fmt.Errorf("%w: %s must be %s, got %T", ErrInvalidArgType, name, article(p.Type), value)
	}

	if p.Type == "array" && p.Items != nil {
		items, _ := value.([]any)
		for i, item := range items {
			if !matchesType(p.Items.Type, item) {
				return fmt.Errorf("%w: %s[%d] must be %s, got %T", ErrInvalidArgType, name, i, article(p.Items.Type), item)
			}
		}
	}

	if len(p.Enum) > 0 {
		found := false
		switch value.(type) {
		case string, bool, float64:
			for _, allowed := range p.Enum {
				if allowed == value {
					found = true
					break
				}
			}
		}
		if !found {
			return fmt.Errorf("%w: %s must be one of %v, got %v", ErrInvalidEnumValue, name, p.Enum, value)
		}
	}

	if p.Type == "integer" {
		if f, _ := toFloat(value); !fitsInt64(f) {
			return fmt.Errorf("%w: %s must fit in a 64-bit integer, got %v", ErrValueOutOfRange, name, f)
		}
	}

	if p.Minimum != nil {
		if f, ok := toFloat(value); ok && f < *p.Minimum {
			return fmt.Errorf("%w: %s must be >= %v, got %v", ErrValueOutOfRange, name, *p.Minimum, f)
		}
	}
	return nil
}

func matchesType(schemaType string, value any) bool {
	switch schemaType {
	case "", "any":
		return true
	case "string":
		_, ok := value.(string)
		return ok
	case "number":
		_, ok := toFloat(value)
		return ok
	case "integer":
		f, ok := toFloat(value)
		return ok && f == math.Trunc(f) && !math.IsInf(f, 0)
	case "boolean":
		_, ok := value.(bool)
		return ok
	case "array":
		switch value.(type) {
		case []any, []string:
			return true
		}
		return false
	case "object":
		switch value.(type) {
		case map[string]any, Args:
			return true
		}
		return false
	default:
		return false
	}
}

func article(schemaType string) string {
	switch schemaType {
	case "array", "integer", "object":
		return "an " + schemaType
	default:
		return "a " + schemaType
	}
}
