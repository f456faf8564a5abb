package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func apply(t *testing.T, name string, v Value, args ...string) Value {
	t.Helper()
	f, ok := Lookup(name)
	require.True(t, ok, "unknown filter %q", name)
	out, err := f(v, args)
	require.NoError(t, err)
	return out
}

func TestFilters(t *testing.T) {
	cases := []struct {
		name   string
		filter string
		in     Value
		args   []string
		want   Value
	}{
		{"join", "join", ListValue([]string{"a", "b", "c"}), []string{","}, WordValue("a,b,c")},
		{"join empty list", "join", ListValue(nil), []string{","}, WordValue("")},
		{"split", "split", WordValue("a,b,c"), []string{","}, ListValue([]string{"a", "b", "c"})},
		{"lines", "lines", WordValue("a\nb\n"), nil, ListValue([]string{"a", "b"})},
		{"lines crlf", "lines", WordValue("a\r\nb"), nil, ListValue([]string{"a", "b"})},
		{"lines empty", "lines", WordValue(""), nil, ListValue(nil)},
		{"words", "words", WordValue("  a\tb  c "), nil, ListValue([]string{"a", "b", "c"})},
		{"len word", "len", WordValue("héllo"), nil, WordValue("5")},
		{"len list", "len", ListValue([]string{"a", "b"}), nil, WordValue("2")},
		{"first", "first", ListValue([]string{"a", "b"}), nil, WordValue("a")},
		{"last", "last", ListValue([]string{"a", "b"}), nil, WordValue("b")},
		{"nth", "nth", ListValue([]string{"a", "b", "c"}), []string{"1"}, WordValue("b")},
		{"replace word", "replace", WordValue("banana"), []string{"a", "o"}, WordValue("bonono")},
		{"replace list", "replace", ListValue([]string{"aa", "ba"}), []string{"a", "x"}, ListValue([]string{"xx", "bx"})},
		{"reverse word", "reverse", WordValue("abc"), nil, WordValue("cba")},
		{"reverse list", "reverse", ListValue([]string{"a", "b", "c"}), nil, ListValue([]string{"c", "b", "a"})},
		{"sort", "sort", ListValue([]string{"b", "a", "B", "10", "2"}), nil, ListValue([]string{"10", "2", "B", "a", "b"})},
		{"unique", "unique", ListValue([]string{"a", "b", "a", "c", "b"}), nil, ListValue([]string{"a", "b", "c"})},
		{"lower", "lower", WordValue("AbC"), nil, WordValue("abc")},
		{"upper", "upper", WordValue("AbC"), nil, WordValue("ABC")},
		{"upper list", "upper", ListValue([]string{"a", "b"}), nil, ListValue([]string{"A", "B"})},
		{"ucfirst", "ucfirst", WordValue("hello world"), nil, WordValue("Hello world")},
		{"ucfirst empty", "ucfirst", WordValue(""), nil, WordValue("")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, apply(t, tc.filter, tc.in, tc.args...))
		})
	}
}

func TestFilterKindMismatch(t *testing.T) {
	cases := []struct {
		filter string
		in     Value
		args   []string
	}{
		{"join", WordValue("a"), []string{","}},
		{"split", ListValue([]string{"a"}), []string{","}},
		{"sort", WordValue("a"), nil},
		{"first", WordValue("a"), nil},
		{"lines", ListValue([]string{"a"}), nil},
	}
	for _, tc := range cases {
		t.Run(tc.filter, func(t *testing.T) {
			f, ok := Lookup(tc.filter)
			require.True(t, ok)
			_, err := f(tc.in, tc.args)
			assert.Error(t, err)
		})
	}
}

func TestFilterArgumentValidation(t *testing.T) {
	f, _ := Lookup("nth")
	_, err := f(ListValue([]string{"a"}), []string{"5"})
	assert.Error(t, err)
	_, err = f(ListValue([]string{"a"}), []string{"x"})
	assert.Error(t, err)
	_, err = f(ListValue([]string{"a"}), nil)
	assert.Error(t, err)

	f, _ = Lookup("first")
	_, err = f(ListValue(nil), nil)
	assert.Error(t, err)
}

func TestNamesSorted(t *testing.T) {
	names := Names()
	assert.Contains(t, names, "sort")
	assert.Contains(t, names, "join")
	assert.IsType(t, []string{}, names)
	for i := 1; i < len(names); i++ {
		assert.LessOrEqual(t, names[i-1], names[i])
	}
}
