package formdata

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
)

// CoercionError reports a root value that cannot be coerced into an ordered
// sequence of form fields. It carries the offending value for diagnostics.
type CoercionError struct {
	Value any
}

func (e *CoercionError) Error() string {
	if e.Value == nil {
		return "form: cannot coerce nil into form fields"
	}
	return fmt.Sprintf("form: cannot coerce %T into form fields", e.Value)
}

// coerce converts a root value into an ordered document. Supported shapes are
// a [D] (or a bare []E), a struct, and a map, any of them behind a pointer.
// Any other value fails with a *CoercionError. Coercion is deterministic:
// documents keep their insertion order, structs follow field declaration
// order, and map entries are sorted by their rendered key.
func coerce(v any) (D, error) {
	switch d := v.(type) {
	case D:
		return d, nil
	case []E:
		return D(d), nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, &CoercionError{Value: v}
		}
		// Coerce the element so a pointer-to-document root resolves the
		// same way a nested one does.
		return coerce(rv.Elem().Interface())
	}

	switch rv.Kind() {
	case reflect.Struct:
		return structPairs(rv), nil
	case reflect.Map:
		return mapPairs(rv), nil
	}
	return nil, &CoercionError{Value: v}
}

// structPairs extracts the exported fields of a struct value in declaration
// order, honouring `form` tags.
func structPairs(rv reflect.Value) D {
	plans := plansFor(rv.Type())
	pairs := make(D, 0, len(plans))
	for _, p := range plans {
		fv := rv.Field(p.index)
		if p.omitEmpty && isEmptyValue(fv) {
			continue
		}
		pairs = append(pairs, E{Key: p.name, Value: fv.Interface()})
	}
	return pairs
}

// mapPairs extracts map entries sorted by their rendered key. Go randomises
// map iteration order per pass; sorting keeps the output deterministic and
// the derived field sequence safely re-iterable.
func mapPairs(rv reflect.Value) D {
	pairs := make(D, 0, rv.Len())
	it := rv.MapRange()
	for it.Next() {
		pairs = append(pairs, E{Key: stringify(it.Key().Interface()), Value: it.Value().Interface()})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Key < pairs[j].Key })
	return pairs
}

// fieldPlan describes how one struct field contributes to a document.
type fieldPlan struct {
	index     int
	name      string
	omitEmpty bool
}

// planCache memoises field plans per struct type to avoid re-parsing tags on
// every call. Safe for concurrent use.
var planCache sync.Map

func plansFor(t reflect.Type) []fieldPlan {
	if cached, ok := planCache.Load(t); ok {
		return cached.([]fieldPlan)
	}

	plans := make([]fieldPlan, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, omitEmpty, skip := parseTag(f.Tag.Get("form"))
		if skip {
			continue
		}
		if name == "" {
			name = f.Name
		}
		plans = append(plans, fieldPlan{index: i, name: name, omitEmpty: omitEmpty})
	}

	planCache.Store(t, plans)
	return plans
}

// parseTag splits a `form` struct tag into its name and flags. The grammar
// follows encoding/json: `form:"name"`, `form:"name,omitempty"`, `form:"-"`
// to skip the field, and `form:",omitempty"` to keep the Go field name.
func parseTag(tag string) (name string, omitEmpty, skip bool) {
	tag = strings.TrimSpace(tag)
	if tag == "-" {
		return "", false, true
	}

	parts := strings.Split(tag, ",")
	name = strings.TrimSpace(parts[0])
	if name == "-" {
		name = ""
		skip = true
	}
	for _, p := range parts[1:] {
		switch strings.TrimSpace(p) {
		case "omitempty":
			omitEmpty = true
		case "ignore":
			skip = true
		}
	}
	return name, omitEmpty, skip
}

func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64,
		reflect.Interface, reflect.Pointer:
		return v.IsZero()
	}
	return false
}
