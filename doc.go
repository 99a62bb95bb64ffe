// Package formdata flattens structured Go values into the flat bracketed
// fields of an HTML form, and renders the result as an HTTP request body.
//
// Nested structures are encoded with the bracket convention understood by
// most web frameworks: members of a nested value contribute fields named
// parent[child], and sequence elements are addressed by position, as in
// user[addresses][0][city]. Built on reflection, formdata handles documents,
// structs, maps, slices, and arrays whilst preserving the order of the data
// it is given.
//
// # Documents
//
// The root value passed to [Create] or [Marshal] must carry named fields: a
// [D] document, a struct, or a map. A [D] preserves insertion order and is
// the canonical way to control field order; map entries are sorted by key to
// keep the output deterministic. Anything else fails with a [CoercionError].
//
//	body, err := formdata.Marshal(formdata.D{
//		{Key: "name", Value: "Maria"},
//		{Key: "tags", Value: formdata.A{"a", "b"}},
//	})
//	// name=Maria&tags[0]=a&tags[1]=b, url-escaped
//
// Nil values are dropped from the output. A dropped sequence element still
// consumes its position, so the indices of its neighbours are unchanged.
//
// # Files
//
// A [File] marks a filesystem path for upload. It is an atomic leaf wherever
// it appears: the multipart format turns it into a file part with a filename
// taken from the path's final element, and the url-encoded format carries
// the path itself.
//
// # Formats
//
// [Create] hands the flattened fields to a [Formatter], which shapes the
// final body. The built-in formats are [Multipart] and [URLEncoded],
// addressable by name:
//
//	f, err := formdata.ParseFormat("multipart")
//	payload, err := formdata.Create(v, f, nil)
//
// Any value with an Output method can serve as a [Formatter]; the [Format]
// constants are names registered for the built-in ones.
//
// # Decoding
//
// [Unmarshal] and [DecodeString] reverse the flattening, rebuilding nested
// values from bracketed field names. Decoding into a map[string]any infers
// []any for indexed segments and map[string]any for keyed ones, with scalar
// leaves kept as strings for round-trip safety.
package formdata
