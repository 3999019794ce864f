package validation

import (
	"sort"
	"strings"
	"unicode/utf8"
)

type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Fields returns the offending field names in a stable order.
func (v Violations) Fields() []string {
	out := make([]string, 0, len(v))
	for k := range v {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

// RequiredAll marks every empty entry of fields as required.
func RequiredAll(fields map[string]string, v Violations) {
	for name, value := range fields {
		Required(name, value, v)
	}
}

// MaxLen flags values longer than max characters. Already flagged fields are kept.
func MaxLen(field, value string, max int, v Violations) {
	if _, ok := v[field]; ok {
		return
	}
	if utf8.RuneCountInString(value) > max {
		v[field] = "too_long"
	}
}

// MaxLenAll applies MaxLen to every entry of fields.
func MaxLenAll(fields map[string]string, max int, v Violations) {
	for name, value := range fields {
		MaxLen(name, value, max, v)
	}
}

func RangeFloat(field string, val, minVal, maxVal float64, v Violations) {
	if val < minVal || val > maxVal {
		v[field] = "out_of_range"
	}
}

// Invalid records a field whose value could not be parsed to the expected type.
func Invalid(field string, v Violations) {
	v[field] = "invalid"
}
