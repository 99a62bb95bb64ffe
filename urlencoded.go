package formdata

import (
	"iter"
	"net/url"
	"strings"
)

// URLEncodedFormatter renders a field sequence as an
// application/x-www-form-urlencoded byte slice. It is registered as the
// [URLEncoded] format.
//
// Pairs are written in sequence order as escaped name=value, joined by "&".
// A [File] value contributes its path, since url-encoded bodies cannot carry
// file contents. With the "get" option set the body is prefixed with "?",
// ready to append to a request URL.
type URLEncodedFormatter struct{}

// Output implements [Formatter].
func (URLEncodedFormatter) Output(fields iter.Seq2[string, any], opts Options) any {
	var b strings.Builder
	if opts.Bool("get") {
		b.WriteByte('?')
	}
	first := true
	for name, value := range fields {
		if !first {
			b.WriteByte('&')
		}
		first = false
		b.WriteString(url.QueryEscape(name))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(stringify(value)))
	}
	return []byte(b.String())
}
