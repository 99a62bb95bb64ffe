package formdata

import (
	"fmt"
	"reflect"
	"strconv"
)

// E is a single entry in a document. It consists of a string key and an
// associated value of any type.
type E struct {
	Key   string
	Value any
}

// D is a document: an ordered collection of key-value entries. Unlike a map,
// a D preserves insertion order, so it is the canonical way to control the
// order of the generated form fields.
type D []E

// A is an array literal, defined as a slice of values of any type. It exists
// for building nested documents without repeating []any.
type A []any

// File marks a filesystem path for submission as a file upload. The traversal
// treats a File as an atomic leaf: it is never descended into, regardless of
// where it appears in the input, and is handed to the formatter unchanged.
// Only the path is ever read; the file contents are not touched.
type File struct {
	Path string
}

// NewFile returns a File reference for the file at path.
func NewFile(path string) *File {
	return &File{Path: path}
}

// UnmarshalForm implements [Unmarshaler], restoring a File from the path it
// was flattened to.
func (f *File) UnmarshalForm(s string) error {
	f.Path = s
	return nil
}

// stringify renders a leaf value as its form-field string. It is total: any
// value outside the scalar fast paths falls back to fmt.Sprint.
func stringify(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case []byte:
		return string(s)
	case *File:
		return s.Path
	case File:
		return s.Path
	case fmt.Stringer:
		return s.String()
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, rv.Type().Bits())
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool())
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return string(rv.Bytes())
		}
	}
	return fmt.Sprint(v)
}
