// Package filters implements the value pipeline stages usable inside
// "${base | filter args}" words.
package filters

import "strings"

// Value is the unit of data flowing through a value pipeline: either a
// single word or a list of words. Conversions between the two kinds are
// explicit, via filters such as split, lines, words, and join.
type Value struct {
	IsList bool
	Word   string
	Items  []string
}

// WordValue returns a word-kind value.
func WordValue(word string) Value {
	return Value{Word: word}
}

// ListValue returns a list-kind value.
func ListValue(items []string) Value {
	return Value{IsList: true, Items: items}
}

// Kind names the value's kind for error messages.
func (v Value) Kind() string {
	if v.IsList {
		return "list"
	}
	return "word"
}

// String renders the value for display. Lists render space-separated.
func (v Value) String() string {
	if v.IsList {
		return strings.Join(v.Items, " ")
	}
	return v.Word
}
