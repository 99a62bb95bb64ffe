package formdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tone string

type token []byte

type clock struct{}

func (clock) String() string { return "12:00" }

func TestParseKey(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input string
		want  []pathSegment
	}{
		"bare name": {
			input: "user",
			want:  []pathSegment{{Key: "user", Index: -1}},
		},
		"keyed segments": {
			input: "user[address][city]",
			want: []pathSegment{
				{Key: "user", Index: -1},
				{Key: "address", Index: -1},
				{Key: "city", Index: -1},
			},
		},
		"indexed segment": {
			input: "tags[0]",
			want: []pathSegment{
				{Key: "tags", Index: -1},
				{Index: 0},
			},
		},
		"append segment": {
			input: "tags[]",
			want: []pathSegment{
				{Key: "tags", Index: -1},
				{Index: -1},
			},
		},
		"mixed path": {
			input: "user[addresses][0][city]",
			want: []pathSegment{
				{Key: "user", Index: -1},
				{Key: "addresses", Index: -1},
				{Index: 0},
				{Key: "city", Index: -1},
			},
		},
		"leading bracket": {
			input: "[city]",
			want:  []pathSegment{{Key: "city", Index: -1}},
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := parseKey(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseKeyInvalid(t *testing.T) {
	t.Parallel()
	_, err := parseKey("a[b")
	assert.Error(t, err)
}

func TestSegmentClassification(t *testing.T) {
	t.Parallel()

	assert.True(t, parseSegment("3").indexed())
	assert.True(t, parseSegment("").indexed())
	assert.False(t, parseSegment("name").indexed())
	assert.False(t, parseSegment("-1").indexed())

	assert.Equal(t, "3", parseSegment("3").text())
	assert.Equal(t, "name", parseSegment("name").text())
}

func TestSplitFormOrder(t *testing.T) {
	t.Parallel()
	pairs, err := splitForm("b=2&a=1&b=3")
	require.NoError(t, err)
	assert.Equal(t, []rawPair{
		{name: "b", value: "2"},
		{name: "a", value: "1"},
		{name: "b", value: "3"},
	}, pairs)
}

func TestStringify(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input any
		want  string
	}{
		"nil":          {input: nil, want: ""},
		"string":       {input: "hello", want: "hello"},
		"bytes":        {input: []byte("raw"), want: "raw"},
		"named bytes":  {input: token("raw"), want: "raw"},
		"file pointer": {input: NewFile("/tmp/a.txt"), want: "/tmp/a.txt"},
		"file value":   {input: File{Path: "b.png"}, want: "b.png"},
		"stringer":     {input: clock{}, want: "12:00"},
		"int":          {input: -42, want: "-42"},
		"uint":         {input: uint8(7), want: "7"},
		"float":        {input: 2.5, want: "2.5"},
		"float32":      {input: float32(11.1), want: "11.1"},
		"bool":         {input: true, want: "true"},
		"named string": {input: tone("warm"), want: "warm"},
		"fallback":     {input: struct{ X int }{1}, want: "{1}"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, stringify(tt.input))
		})
	}
}

func TestParseTag(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input     string
		name      string
		omitEmpty bool
		skip      bool
	}{
		"empty":          {input: "", name: ""},
		"name only":      {input: "city", name: "city"},
		"omitempty":      {input: "city,omitempty", name: "city", omitEmpty: true},
		"skip dash":      {input: "-", skip: true},
		"dash with flag": {input: "-,omitempty", skip: true, omitEmpty: true},
		"ignore flag":    {input: ",ignore", skip: true},
		"bare omitempty": {input: ",omitempty", omitEmpty: true},
		"padded":         {input: " city , omitempty ", name: "city", omitEmpty: true},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			gotName, gotOmit, gotSkip := parseTag(tt.input)
			assert.Equal(t, tt.name, gotName)
			assert.Equal(t, tt.omitEmpty, gotOmit)
			assert.Equal(t, tt.skip, gotSkip)
		})
	}
}

func TestFileOf(t *testing.T) {
	t.Parallel()

	f, ok := fileOf(File{Path: "a"})
	assert.True(t, ok)
	assert.Equal(t, "a", f.Path)

	f, ok = fileOf(NewFile("b"))
	assert.True(t, ok)
	assert.Equal(t, "b", f.Path)

	_, ok = fileOf((*File)(nil))
	assert.False(t, ok)

	_, ok = fileOf("not a file")
	assert.False(t, ok)
}
