package utils

import (
	"reflect"
	"strconv"
	"strings"
	"unicode"
)

// UpdatesFromPtrDTO builds a column->value map from the non-nil pointer fields of a DTO.
// The column is the snake_case form of the field's `json` name (e.g. "categoryId" -> "category_id");
// renames overrides that per json name.
func UpdatesFromPtrDTO(dto any, renames map[string]string) map[string]any {
	res := make(map[string]any)
	s, ok := structElem(dto)
	if !ok {
		return res
	}
	t := s.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		fv := s.Field(i)
		if fv.Kind() != reflect.Ptr || fv.IsNil() {
			continue
		}
		jsonTag := sf.Tag.Get("json")
		if jsonTag == "" || jsonTag == "-" {
			continue
		}
		name := strings.Split(jsonTag, ",")[0]
		col := SnakeCase(name)
		if alt, ok := renames[name]; ok && alt != "" {
			col = alt
		}
		res[col] = fv.Elem().Interface()
	}
	return res
}

// SnakeCase converts a camelCase identifier to snake_case.
func SnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

func ParseIntDefault(s string, def int) int {
	if v, err := strconv.Atoi(strings.TrimSpace(s)); err == nil && v >= 0 {
		return v
	}
	return def
}
