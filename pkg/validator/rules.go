package validator

import (
	"fmt"
	"slices"
	"strings"
)

// RequiredString fails on empty or whitespace-only values.
func RequiredString(field, value string) Rule {
	return Rule{
		Check: func() bool { return strings.TrimSpace(value) != "" },
		Error: ValidationError{
			Field:          field,
			Message:        "field is required",
			TranslationKey: "validation.required",
		},
	}
}

func RequiredSlice[T any](field string, value []T) Rule {
	return Rule{
		Check: func() bool { return len(value) > 0 },
		Error: ValidationError{
			Field:          field,
			Message:        "field is required",
			TranslationKey: "validation.required",
		},
	}
}

// InList fails unless value is one of allowed. The allowed values are
// reported in Params["allowed"].
func InList[T comparable](field string, value T, allowed []T) Rule {
	return Rule{
		Check: func() bool { return slices.Contains(allowed, value) },
		Error: ValidationError{
			Field:          field,
			Message:        fmt.Sprintf("must be one of: %v", allowed),
			TranslationKey: "validation.in_list",
			Params:         map[string]any{"allowed": allowed},
		},
	}
}
