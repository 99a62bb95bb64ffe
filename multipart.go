package formdata

import (
	"iter"
	"path/filepath"
)

// MultipartTag tags every payload built by [MultipartFormatter].
const MultipartTag = "multipart"

// PartKind discriminates multipart payload entries.
type PartKind string

const (
	// PartFile marks an entry whose content is a file path to be read by
	// the downstream body encoder.
	PartFile PartKind = "file"

	// PartField marks a plain field entry. The empty tag is what downstream
	// body encoders expect for non-file parts.
	PartField PartKind = ""
)

// Param is a single name-value parameter of part metadata.
type Param struct {
	Name  string
	Value string
}

// Disposition is a part's Content-Disposition metadata: the disposition type
// and its ordered parameters.
type Disposition struct {
	Type   string
	Params []Param
}

// Part is one entry of a multipart payload.
type Part struct {
	Kind        PartKind
	Content     string
	Disposition Disposition
	Extra       []Param
}

// MultipartPayload describes a multipart/form-data body as an ordered list
// of parts under the fixed [MultipartTag]. The shape is what multipart body
// encoders conventionally consume: per part, a kind, the content, a
// "form-data" disposition with double-quoted name (and filename) parameters,
// and a slot for extra headers.
type MultipartPayload struct {
	Tag   string
	Parts []Part
}

// MultipartFormatter builds a *MultipartPayload from a field sequence. It is
// registered as the [Multipart] format.
//
// A [File] value becomes a file part: the content is the file's path and the
// disposition gains a filename parameter holding the path's final element.
// Any other value becomes a field part with stringified content. Options are
// accepted for interface parity and ignored.
type MultipartFormatter struct{}

// Output implements [Formatter].
func (MultipartFormatter) Output(fields iter.Seq2[string, any], _ Options) any {
	payload := &MultipartPayload{Tag: MultipartTag}
	for name, value := range fields {
		payload.Parts = append(payload.Parts, part(name, value))
	}
	return payload
}

func part(name string, value any) Part {
	if f, ok := fileOf(value); ok {
		return Part{
			Kind:    PartFile,
			Content: f.Path,
			Disposition: Disposition{
				Type: "form-data",
				Params: []Param{
					{Name: "name", Value: quote(name)},
					{Name: "filename", Value: quote(filepath.Base(f.Path))},
				},
			},
			Extra: []Param{},
		}
	}
	return Part{
		Kind:    PartField,
		Content: stringify(value),
		Disposition: Disposition{
			Type:   "form-data",
			Params: []Param{{Name: "name", Value: quote(name)}},
		},
		Extra: []Param{},
	}
}

// fileOf unwraps a [File] carried by value or by pointer.
func fileOf(v any) (File, bool) {
	switch f := v.(type) {
	case File:
		return f, true
	case *File:
		if f != nil {
			return *f, true
		}
	}
	return File{}, false
}

// quote wraps s in literal double quotes, the form in which disposition
// parameters travel on the wire. The contents are not escaped.
func quote(s string) string {
	return `"` + s + `"`
}
