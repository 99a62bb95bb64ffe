package formdata

import (
	"fmt"
	"iter"
	"reflect"
	"strconv"
)

// Fields flattens v into its form-field sequence. The root must be a [D] (or
// []E), a struct, or a map; any other value fails with a *CoercionError.
//
// Every leaf of v yields one (name, value) pair. Top-level keys become bare
// field names; nested keys are bracket-suffixed onto their parent's name, and
// sequence elements are addressed by zero-based index:
//
//	D{{"user", D{{"name", "jane"}, {"tags", A{"a", "b"}}}}}
//	// user[name]=jane, user[tags][0]=a, user[tags][1]=b
//
// Pairs are yielded in a deterministic pre-order walk: depth-first,
// left-to-right, siblings in source order (documents and slices) or sorted
// key order (maps). Pairs whose value is nil are dropped; a dropped sequence
// element still consumes its index. A [File] value is an atomic leaf and is
// yielded as-is, never descended into. So is any value implementing
// [fmt.Stringer], which formatters render with its String method.
//
// Keys containing literal '[' or ']' produce ambiguous names. They are passed
// through unescaped; avoiding them is the caller's responsibility.
//
// The returned sequence is lazy and may be re-iterated; each pass yields the
// same pairs in the same order.
func Fields(v any) (iter.Seq2[string, any], error) {
	pairs, err := coerce(v)
	if err != nil {
		return nil, err
	}
	return func(yield func(string, any) bool) {
		for _, e := range pairs {
			if !emit(e.Key, e.Value, yield) {
				return
			}
		}
	}, nil
}

// emit walks value depth-first under the field name built so far, yielding
// one pair per leaf. It reports whether iteration should continue. Dispatch
// is most-specific first: a File must win over the generic struct rule.
func emit(name string, value any, yield func(string, any) bool) bool {
	switch v := value.(type) {
	case nil:
		return true
	case *File:
		if v == nil {
			return true
		}
		return yield(name, v)
	case File:
		return yield(name, v)
	case D:
		return emitPairs(name, v, yield)
	case []E:
		return emitPairs(name, v, yield)
	case []byte:
		if v == nil {
			return true
		}
		return yield(name, v)
	case fmt.Stringer:
		if rv := reflect.ValueOf(value); rv.Kind() == reflect.Pointer && rv.IsNil() {
			return true
		}
		return yield(name, v)
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return true
		}
		// Re-dispatch the element so pointer-to-document, pointer-to-File
		// and friends take their dedicated paths above.
		return emit(name, rv.Elem().Interface(), yield)
	}

	switch rv.Kind() {
	case reflect.Invalid:
		return true
	case reflect.Struct:
		return emitPairs(name, structPairs(rv), yield)
	case reflect.Map:
		return emitPairs(name, mapPairs(rv), yield)
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			if rv.IsNil() {
				return true
			}
			return yield(name, rv.Interface())
		}
		return emitIndexed(name, rv, yield)
	case reflect.Array:
		return emitIndexed(name, rv, yield)
	}
	return yield(name, value)
}

// emitPairs recurses into an ordered document, bracketing each key under the
// current name.
func emitPairs(name string, pairs D, yield func(string, any) bool) bool {
	for _, e := range pairs {
		if !emit(name+"["+e.Key+"]", e.Value, yield) {
			return false
		}
	}
	return true
}

// emitIndexed recurses into a slice or array, bracketing each element's
// zero-based index under the current name.
func emitIndexed(name string, rv reflect.Value, yield func(string, any) bool) bool {
	for i := 0; i < rv.Len(); i++ {
		if !emit(name+"["+strconv.Itoa(i)+"]", rv.Index(i).Interface(), yield) {
			return false
		}
	}
	return true
}
