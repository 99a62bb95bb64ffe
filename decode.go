package formdata

import (
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"
)

// InvalidUnmarshalError describes an invalid argument passed to [Unmarshal].
// (The argument to [Unmarshal] must be a non-nil pointer.)
type InvalidUnmarshalError struct {
	Type reflect.Type
}

func (e *InvalidUnmarshalError) Error() string {
	if e.Type == nil {
		return "form: Unmarshal(nil)"
	}

	if e.Type.Kind() != reflect.Pointer {
		return "form: Unmarshal(non-pointer " + e.Type.String() + ")"
	}
	return "form: Unmarshal(nil " + e.Type.String() + ")"
}

// Unmarshaler is the interface implemented by types that can unmarshal a form
// field representation of themselves. The input can be assumed to be a decoded
// field value. [Unmarshaler.UnmarshalForm] must copy the data if it wishes to
// retain it after returning.
type Unmarshaler interface {
	UnmarshalForm(string) error
}

// DecodeString is a convenience function that parses the url-encoded form
// data in the string and stores the result in the value pointed to by v. If v
// is nil or not a pointer, DecodeString returns an [InvalidUnmarshalError].
func DecodeString(data string, v any) error {
	return Unmarshal([]byte(data), v)
}

// Unmarshal parses url-encoded form data and stores the result in the value
// pointed to by v. If v is nil or not a pointer, Unmarshal returns an
// [InvalidUnmarshalError].
//
// Fields are applied in wire order. Bracketed names rebuild the structure
// they were flattened from: name[key] addresses a member, name[0] addresses
// a sequence element at that position, and a bare name[] appends. Sequences
// grow as needed, so fields addressing the same element merge rather than
// accumulate.
func Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return fmt.Errorf("form: empty input")
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return &InvalidUnmarshalError{reflect.TypeOf(v)}
	}

	rv = rv.Elem()
	if rv.Kind() != reflect.Struct && rv.Kind() != reflect.Map {
		return fmt.Errorf("form: top-level value must be struct or map")
	}

	// Ensure map keys are strings.
	if rv.Kind() == reflect.Map && rv.Type().Key().Kind() != reflect.String {
		return fmt.Errorf("form: map keys must be strings")
	}

	pairs, err := splitForm(string(data))
	if err != nil {
		return err
	}

	for _, p := range pairs {
		path, err := parseKey(p.name)
		if err != nil {
			return err
		}
		if err := assign(rv, path, p.value); err != nil {
			return fmt.Errorf("form: %w", err)
		}
	}
	return nil
}

type rawPair struct {
	name  string
	value string
}

// splitForm breaks a url-encoded body into unescaped name-value pairs,
// preserving wire order. A leading "?" is tolerated so that bodies built for
// GET requests decode unchanged.
func splitForm(data string) ([]rawPair, error) {
	data = strings.TrimPrefix(strings.TrimSpace(data), "?")

	var pairs []rawPair
	for _, field := range strings.Split(data, "&") {
		if field == "" {
			continue
		}

		name, value, _ := strings.Cut(field, "=")
		var p rawPair
		var err error
		if p.name, err = url.QueryUnescape(name); err != nil {
			return nil, fmt.Errorf("form: invalid form data: %w", err)
		}
		if p.value, err = url.QueryUnescape(value); err != nil {
			return nil, fmt.Errorf("form: invalid form data: %w", err)
		}
		pairs = append(pairs, p)
	}
	return pairs, nil
}

func assign(v reflect.Value, path []pathSegment, val string) error {
	v = deref(v)

	// Interface slots are rebuilt by inference however much path remains;
	// an exhausted path stores the leaf as a string.
	if v.Kind() == reflect.Interface {
		return assignInterfaceValue(v, path, val)
	}

	// If the path is empty, we are at a leaf node.
	if len(path) == 0 {
		return assignLeaf(v, val)
	}

	// Get the next segment of the path.
	seg := path[0]

	// Dispatch based on the kind of the value.
	switch v.Kind() {
	case reflect.Struct:
		return assignStructField(v, seg.text(), path[1:], val)
	case reflect.Map:
		return assignMapValue(v, seg, path[1:], val)
	case reflect.Slice:
		return assignSliceValue(v, seg, path[1:], val)
	default:
		return fmt.Errorf("cannot assign to %v", v.Kind())
	}
}

// dereference a pointer value, allocating a new value if needed.
func deref(v reflect.Value) reflect.Value {
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			v.Set(reflect.New(v.Type().Elem()))
		}
		return v.Elem()
	}
	return v
}

// assign a leaf value (string) to v. If v implements [Unmarshaler], use that.
func assignLeaf(v reflect.Value, val string) error {
	if u, ok := asUnmarshaler(v); ok {
		return u.UnmarshalForm(val)
	}
	return setScalar(v, val)
}

// assign a struct field identified by key.
func assignStructField(v reflect.Value, key string, path []pathSegment, val string) error {
	field := findStructField(v, key)
	if !field.IsValid() || !field.CanSet() {
		return fmt.Errorf("unknown field %q in struct %v", key, v.Type())
	}
	return assign(field, path, val)
}

// assign a map value identified by a path segment. Map elements are not
// addressable, so the element is rebuilt on a settable copy and stored back
// once the rest of the path has been assigned.
func assignMapValue(v reflect.Value, seg pathSegment, path []pathSegment, val string) error {
	if v.IsNil() {
		v.Set(reflect.MakeMap(v.Type()))
	}

	keyType := v.Type().Key()
	if keyType.Kind() != reflect.String {
		return fmt.Errorf("map keys must be strings, got %v", keyType)
	}

	key := reflect.ValueOf(seg.text()).Convert(keyType)
	elemType := v.Type().Elem()

	if elemType.Kind() == reflect.Interface {
		cur := v.MapIndex(key)
		if cur.IsValid() {
			cur = cur.Elem()
		}
		newVal, err := inferInterfaceValue(cur, path, val)
		if err != nil {
			return err
		}
		v.SetMapIndex(key, newVal)
		return nil
	}

	// A bare repeated key accumulates into a slice element, as in tags=a&tags=b
	// decoding into map[string][]string. Byte slices stay leaves.
	if elemType.Kind() == reflect.Slice && elemType.Elem().Kind() != reflect.Uint8 && len(path) == 0 {
		slice := reflect.MakeSlice(elemType, 0, 1)
		if cur := v.MapIndex(key); cur.IsValid() {
			slice = cur
		}
		newElem := reflect.New(elemType.Elem()).Elem()
		if err := assign(newElem, nil, val); err != nil {
			return err
		}
		v.SetMapIndex(key, reflect.Append(slice, newElem))
		return nil
	}

	elem := reflect.New(elemType).Elem()
	if cur := v.MapIndex(key); cur.IsValid() {
		elem.Set(cur)
	}
	if err := assign(elem, path, val); err != nil {
		return err
	}
	v.SetMapIndex(key, elem)
	return nil
}

// maxSliceIndex bounds explicit element indices. Indices arrive in wire
// field names, so growth must not be unbounded by input size.
const maxSliceIndex = 1 << 16

// assign a slice element identified by a path segment, growing the slice to
// reach an explicit position.
func assignSliceValue(v reflect.Value, seg pathSegment, path []pathSegment, val string) error {
	idx := seg.Index
	if idx < 0 {
		if seg.Key != "" {
			return fmt.Errorf("cannot index %v with key %q", v.Type(), seg.Key)
		}
		idx = v.Len()
	} else if idx > maxSliceIndex {
		return fmt.Errorf("slice index %d out of range", idx)
	}

	elemType := v.Type().Elem()
	for v.Len() <= idx {
		v.Set(reflect.Append(v, reflect.New(elemType).Elem()))
	}
	return assign(v.Index(idx), path, val)
}

// assign into an interface slot by rebuilding its inferred value.
func assignInterfaceValue(v reflect.Value, path []pathSegment, val string) error {
	cur := reflect.Value{}
	if !v.IsNil() {
		cur = v.Elem()
	}
	newVal, err := inferInterfaceValue(cur, path, val)
	if err != nil {
		return err
	}
	v.Set(newVal)
	return nil
}

// infer the value for an interface slot based on the path segments.
func inferInterfaceValue(v reflect.Value, path []pathSegment, val string) (reflect.Value, error) {
	// Leaf node. When no type information is available, default to string.
	// This is consistent with form value semantics, and guarantees round-trip
	// safety.
	if len(path) == 0 {
		return reflect.ValueOf(val), nil
	}

	// However we do want to infer the structure of nested values, so we can
	// build maps and slices as needed. Indexed segments build sequences,
	// keyed segments build maps.
	seg := path[0]
	if seg.indexed() {
		return inferSliceValue(v, seg, path[1:], val)
	}
	return inferMapValue(v, seg, path[1:], val)
}

// infer a sequence element for the given path segment. The sequence grows to
// reach an explicit position, so fields addressing the same element merge
// into it.
func inferSliceValue(v reflect.Value, seg pathSegment, path []pathSegment, val string) (reflect.Value, error) {
	var slice []any
	if v.IsValid() {
		if s, ok := v.Interface().([]any); ok {
			slice = s
		}
	}

	idx := seg.Index
	if idx < 0 {
		idx = len(slice)
	} else if idx > maxSliceIndex {
		return reflect.Value{}, fmt.Errorf("slice index %d out of range", idx)
	}
	for len(slice) <= idx {
		slice = append(slice, nil)
	}

	elem, err := inferInterfaceValue(reflect.ValueOf(slice[idx]), path, val)
	if err != nil {
		return reflect.Value{}, err
	}

	slice[idx] = elem.Interface()
	return reflect.ValueOf(slice), nil
}

// infer a map value for the given path segment. Unlike slices, we need to
// explicitly instantiate the map if it doesn't exist, as it is not possible
// to insert into a nil map.
func inferMapValue(v reflect.Value, seg pathSegment, path []pathSegment, val string) (reflect.Value, error) {
	m := make(map[string]any)
	if v.IsValid() {
		if existing, ok := v.Interface().(map[string]any); ok {
			m = existing
		}
	}

	elem, err := inferInterfaceValue(reflect.ValueOf(m[seg.Key]), path, val)
	if err != nil {
		return reflect.Value{}, err
	}

	m[seg.Key] = elem.Interface()
	return reflect.ValueOf(m), nil
}

func asUnmarshaler(v reflect.Value) (Unmarshaler, bool) {
	if v.CanAddr() {
		if u, ok := v.Addr().Interface().(Unmarshaler); ok {
			return u, true
		}
	}
	if u, ok := v.Interface().(Unmarshaler); ok {
		return u, true
	}
	return nil, false
}

func findStructField(v reflect.Value, key string) reflect.Value {
	for _, f := range plansFor(v.Type()) {
		if f.name == key {
			return v.Field(f.index)
		}
	}
	return reflect.Value{}
}

func setScalar(v reflect.Value, val string) error {
	switch v.Kind() {
	case reflect.String:
		v.SetString(val)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return setInt(v, val)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return setUint(v, val)
	case reflect.Float32, reflect.Float64:
		return setFloat(v, val)
	case reflect.Bool:
		return parseBool(v, val)
	case reflect.Slice:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			v.SetBytes([]byte(val))
			return nil
		}
		return fmt.Errorf("unsupported type: %v", v.Type())
	default:
		return fmt.Errorf("unsupported type: %v", v.Type())
	}
	return nil
}

func setInt(v reflect.Value, s string) error {
	if s == "" {
		v.SetInt(0)
		return nil
	}
	i, err := strconv.ParseInt(s, 10, v.Type().Bits())
	if err != nil {
		return fmt.Errorf("setInt: %w", err)
	}
	v.SetInt(i)
	return nil
}

func setUint(v reflect.Value, s string) error {
	if s == "" {
		v.SetUint(0)
		return nil
	}
	i, err := strconv.ParseUint(s, 10, v.Type().Bits())
	if err != nil {
		return fmt.Errorf("parseUint: %w", err)
	}
	v.SetUint(i)
	return nil
}

func setFloat(v reflect.Value, s string) error {
	if s == "" {
		v.SetFloat(0)
		return nil
	}
	f, err := strconv.ParseFloat(s, v.Type().Bits())
	if err != nil {
		return fmt.Errorf("parseFloat: %w", err)
	}
	v.SetFloat(f)
	return nil
}

func parseBool(v reflect.Value, s string) error {
	if s == "" {
		v.SetBool(false)
		return nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return fmt.Errorf("parseBool: %w", err)
	}
	v.SetBool(b)
	return nil
}
