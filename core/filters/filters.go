package filters

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// Func applies one pipeline stage to a value. Filters validate both their
// argument count and the kind of their input.
type Func func(v Value, args []string) (Value, error)

var registry = map[string]Func{
	"first":   first,
	"join":    join,
	"last":    last,
	"len":     length,
	"lines":   lines,
	"lower":   lower,
	"nth":     nth,
	"replace": replace,
	"reverse": reverse,
	"sort":    sortFilter,
	"split":   split,
	"ucfirst": ucfirst,
	"unique":  unique,
	"upper":   upper,
	"words":   words,
}

// Lookup returns the named filter.
func Lookup(name string) (Func, bool) {
	f, ok := registry[name]
	return f, ok
}

// Names returns the sorted names of all registered filters.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func argCount(name string, args []string, want int) error {
	if len(args) != want {
		return fmt.Errorf("filter %s: expected %d argument(s), got %d", name, want, len(args))
	}
	return nil
}

func wantList(name string, v Value) error {
	if !v.IsList {
		return fmt.Errorf("filter %s: expected a list, got a %s", name, v.Kind())
	}
	return nil
}

func wantWord(name string, v Value) error {
	if v.IsList {
		return fmt.Errorf("filter %s: expected a word, got a %s", name, v.Kind())
	}
	return nil
}

func join(v Value, args []string) (Value, error) {
	if err := argCount("join", args, 1); err != nil {
		return Value{}, err
	}
	if err := wantList("join", v); err != nil {
		return Value{}, err
	}
	return WordValue(strings.Join(v.Items, args[0])), nil
}

func split(v Value, args []string) (Value, error) {
	if err := argCount("split", args, 1); err != nil {
		return Value{}, err
	}
	if err := wantWord("split", v); err != nil {
		return Value{}, err
	}
	return ListValue(strings.Split(v.Word, args[0])), nil
}

// lines splits a word on line endings. A trailing newline does not produce
// an empty final element.
func lines(v Value, args []string) (Value, error) {
	if err := argCount("lines", args, 0); err != nil {
		return Value{}, err
	}
	if err := wantWord("lines", v); err != nil {
		return Value{}, err
	}
	text := strings.ReplaceAll(v.Word, "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return ListValue(nil), nil
	}
	return ListValue(strings.Split(text, "\n")), nil
}

func words(v Value, args []string) (Value, error) {
	if err := argCount("words", args, 0); err != nil {
		return Value{}, err
	}
	if err := wantWord("words", v); err != nil {
		return Value{}, err
	}
	return ListValue(strings.Fields(v.Word)), nil
}

func length(v Value, args []string) (Value, error) {
	if err := argCount("len", args, 0); err != nil {
		return Value{}, err
	}
	if v.IsList {
		return WordValue(strconv.Itoa(len(v.Items))), nil
	}
	return WordValue(strconv.Itoa(len([]rune(v.Word)))), nil
}

func first(v Value, args []string) (Value, error) {
	if err := argCount("first", args, 0); err != nil {
		return Value{}, err
	}
	if err := wantList("first", v); err != nil {
		return Value{}, err
	}
	if len(v.Items) == 0 {
		return Value{}, fmt.Errorf("filter first: empty list")
	}
	return WordValue(v.Items[0]), nil
}

func last(v Value, args []string) (Value, error) {
	if err := argCount("last", args, 0); err != nil {
		return Value{}, err
	}
	if err := wantList("last", v); err != nil {
		return Value{}, err
	}
	if len(v.Items) == 0 {
		return Value{}, fmt.Errorf("filter last: empty list")
	}
	return WordValue(v.Items[len(v.Items)-1]), nil
}

func nth(v Value, args []string) (Value, error) {
	if err := argCount("nth", args, 1); err != nil {
		return Value{}, err
	}
	if err := wantList("nth", v); err != nil {
		return Value{}, err
	}
	i, err := strconv.Atoi(args[0])
	if err != nil {
		return Value{}, fmt.Errorf("filter nth: invalid index %q", args[0])
	}
	if i < 0 || i >= len(v.Items) {
		return Value{}, fmt.Errorf("filter nth: index %d out of range for %d element(s)", i, len(v.Items))
	}
	return WordValue(v.Items[i]), nil
}

func replace(v Value, args []string) (Value, error) {
	if err := argCount("replace", args, 2); err != nil {
		return Value{}, err
	}
	return mapValue(v, func(s string) string {
		return strings.ReplaceAll(s, args[0], args[1])
	}), nil
}

// reverse flips a list's element order, or a word's character order.
func reverse(v Value, args []string) (Value, error) {
	if err := argCount("reverse", args, 0); err != nil {
		return Value{}, err
	}
	if v.IsList {
		items := make([]string, len(v.Items))
		for i, item := range v.Items {
			items[len(v.Items)-1-i] = item
		}
		return ListValue(items), nil
	}
	runes := []rune(v.Word)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return WordValue(string(runes)), nil
}

// sortFilter orders a list ascending by byte-wise comparison.
func sortFilter(v Value, args []string) (Value, error) {
	if err := argCount("sort", args, 0); err != nil {
		return Value{}, err
	}
	if err := wantList("sort", v); err != nil {
		return Value{}, err
	}
	items := append([]string(nil), v.Items...)
	sort.Strings(items)
	return ListValue(items), nil
}

// unique drops duplicate elements, keeping the first occurrence of each.
func unique(v Value, args []string) (Value, error) {
	if err := argCount("unique", args, 0); err != nil {
		return Value{}, err
	}
	if err := wantList("unique", v); err != nil {
		return Value{}, err
	}
	seen := make(map[string]bool, len(v.Items))
	var items []string
	for _, item := range v.Items {
		if seen[item] {
			continue
		}
		seen[item] = true
		items = append(items, item)
	}
	return ListValue(items), nil
}

func lower(v Value, args []string) (Value, error) {
	if err := argCount("lower", args, 0); err != nil {
		return Value{}, err
	}
	return mapValue(v, strings.ToLower), nil
}

func upper(v Value, args []string) (Value, error) {
	if err := argCount("upper", args, 0); err != nil {
		return Value{}, err
	}
	return mapValue(v, strings.ToUpper), nil
}

func ucfirst(v Value, args []string) (Value, error) {
	if err := argCount("ucfirst", args, 0); err != nil {
		return Value{}, err
	}
	return mapValue(v, func(s string) string {
		runes := []rune(s)
		if len(runes) == 0 {
			return s
		}
		runes[0] = unicode.ToUpper(runes[0])
		return string(runes)
	}), nil
}

// mapValue applies f to a word, or to every element of a list.
func mapValue(v Value, f func(string) string) Value {
	if !v.IsList {
		return WordValue(f(v.Word))
	}
	items := make([]string, len(v.Items))
	for i, item := range v.Items {
		items[i] = f(item)
	}
	return ListValue(items)
}
