package formdata

import (
	"fmt"
	"strconv"
	"strings"
)

// pathSegment is one step of a bracketed field name. Index is the element
// position addressed by the segment, or -1 when Key names a member. A
// segment with an empty Key and a negative Index is a bare [] appending to
// the end of a sequence.
type pathSegment struct {
	Key   string
	Index int
}

// indexed reports whether the segment addresses a sequence element, either
// at an explicit position or by appending.
func (s pathSegment) indexed() bool {
	return s.Index >= 0 || s.Key == ""
}

// text returns the segment as written between brackets, for use as a map or
// struct member key.
func (s pathSegment) text() string {
	if s.Index >= 0 {
		return strconv.Itoa(s.Index)
	}
	return s.Key
}

func parseKey(key string) ([]pathSegment, error) {
	var path []pathSegment
	for len(key) > 0 {
		i := strings.IndexByte(key, '[')
		if i == -1 {
			path = append(path, pathSegment{Key: key, Index: -1})
			break
		}

		if i > 0 {
			path = append(path, pathSegment{Key: key[:i], Index: -1})
		}

		key = key[i+1:]
		j := strings.IndexByte(key, ']')
		if j == -1 {
			return nil, fmt.Errorf("form: invalid key syntax")
		}

		path = append(path, parseSegment(key[:j]))
		key = key[j+1:]
	}
	return path, nil
}

// parseSegment classifies the text between one pair of brackets: a decimal
// element index, an empty append marker, or a member key.
func parseSegment(part string) pathSegment {
	if part == "" {
		return pathSegment{Index: -1}
	}
	if n, err := strconv.Atoi(part); err == nil && n >= 0 {
		return pathSegment{Index: n}
	}
	return pathSegment{Key: part, Index: -1}
}
