package formdata

import (
	"errors"
	"fmt"
	"iter"
)

// Formatter is the capability implemented by payload builders. Output
// consumes the flattened field sequence exactly once and returns a
// formatter-specific payload.
//
// The sequence is already fully flattened and nil-filtered: implementations
// must not parse field names for nested structure, and they cannot fail on
// it. They may special-case [File] values.
type Formatter interface {
	Output(fields iter.Seq2[string, any], opts Options) any
}

// Options carries formatter-specific settings. [Create] passes it through to
// the formatter untouched; recognised keys are documented on each built-in
// formatter.
type Options map[string]any

// Bool reports whether the option named key is set to true.
func (o Options) Bool(key string) bool {
	b, ok := o[key].(bool)
	return ok && b
}

// Format names a built-in formatter. A Format is itself a [Formatter] that
// resolves against the built-in registry, so it can be passed directly to
// [Create] alongside third-party implementations.
type Format string

const (
	// Multipart produces a *MultipartPayload describing a
	// multipart/form-data body.
	Multipart Format = "multipart"

	// URLEncoded produces an application/x-www-form-urlencoded []byte.
	URLEncoded Format = "url-encoded"
)

var formats = []Format{Multipart, URLEncoded}

var formatters = map[Format]Formatter{
	Multipart:  MultipartFormatter{},
	URLEncoded: URLEncodedFormatter{},
}

// String returns the format name.
func (f Format) String() string { return string(f) }

// Output delegates to the formatter registered under f. Unknown names panic
// at call time; use [ParseFormat] to validate names from external input.
func (f Format) Output(fields iter.Seq2[string, any], opts Options) any {
	fm, ok := formatters[f]
	if !ok {
		panic(fmt.Sprintf("form: unknown format %q", f))
	}
	return fm.Output(fields, opts)
}

// ErrUnknownFormat is returned by [ParseFormat] for unrecognised names.
var ErrUnknownFormat = errors.New("unknown format")

// ParseFormat parses a format name into a [Format]. It recognises the
// built-in formats only.
func ParseFormat(s string) (Format, error) {
	for _, f := range formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Formats returns all built-in format names.
func Formats() []Format {
	out := make([]Format, len(formats))
	copy(out, formats)
	return out
}

// Create flattens v into its form-field sequence and hands it to f,
// returning the formatter's payload. The root is coerced before the
// formatter runs: on a coercion failure the error is returned immediately
// and f is never invoked. opts may be nil.
//
// The payload's concrete type is determined by the formatter: the built-ins
// return a *MultipartPayload and a []byte respectively.
func Create(v any, f Formatter, opts Options) (any, error) {
	fields, err := Fields(v)
	if err != nil {
		return nil, err
	}
	return f.Output(fields, opts), nil
}

// MustCreate is like [Create] but panics on a coercion failure. It
// simplifies call sites building payloads from values that are known to be
// well-formed.
func MustCreate(v any, f Formatter, opts Options) any {
	payload, err := Create(v, f, opts)
	if err != nil {
		panic(err)
	}
	return payload
}

// Marshal returns the URL-encoded form encoding of v.
func Marshal(v any) ([]byte, error) {
	payload, err := Create(v, URLEncoded, nil)
	if err != nil {
		return nil, err
	}
	return payload.([]byte), nil
}

// EncodeToString is a convenience function that returns the URL-encoded form
// encoding of v as a string.
func EncodeToString(v any) (string, error) {
	b, err := Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
