package cmdutil

import (
	"reflect"
	"strings"
	"unicode"
)

// StructToMapOptions configures StructToMap behavior.
type StructToMapOptions struct {
	// JoinStringSlices joins []string fields with SliceSeparator
	JoinStringSlices bool
	// SliceSeparator defaults to ", "
	SliceSeparator string
}

// StructToMap converts a struct into a row map. Column names come from the
// `db` struct tag, falling back to the snake_case field name; `db:"-"` skips
// the field. Nil pointers become nil (SQL NULL).
func StructToMap[T any](value T, opts StructToMapOptions) map[string]any {
	result := make(map[string]any)
	v := reflect.ValueOf(value)
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return result
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return result
	}

	if opts.SliceSeparator == "" {
		opts.SliceSeparator = ", "
	}

	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		if field.PkgPath != "" {
			continue
		}

		key := toSnakeCase(field.Name)
		if tag, ok := field.Tag.Lookup("db"); ok {
			name, _, _ := strings.Cut(tag, ",")
			if name == "-" {
				continue
			}
			if name != "" {
				key = name
			}
		}

		result[key] = normalizeValue(v.Field(i), opts)
	}
	return result
}

func normalizeValue(value reflect.Value, opts StructToMapOptions) any {
	if value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return nil
		}
		value = value.Elem()
	}

	if opts.JoinStringSlices && value.Kind() == reflect.Slice && value.Type().Elem().Kind() == reflect.String {
		items := make([]string, value.Len())
		for i := 0; i < value.Len(); i++ {
			items[i] = value.Index(i).String()
		}
		return strings.Join(items, opts.SliceSeparator)
	}

	return value.Interface()
}

// toSnakeCase converts CamelCase to snake_case, keeping acronyms together
// (CoverID -> cover_id, HTTPStatus -> http_status).
func toSnakeCase(input string) string {
	runes := []rune(input)
	var builder strings.Builder
	builder.Grow(len(runes) + 4)

	for i, r := range runes {
		if unicode.IsUpper(r) && i > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				builder.WriteRune('_')
			}
		}
		builder.WriteRune(unicode.ToLower(r))
	}

	return builder.String()
}
