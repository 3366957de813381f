package sanitizer

import (
	"strings"
	"unicode"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// SanitizeRoomID removes all whitespace and control characters. Room ids are
// matched case-sensitively, so case is kept.
func SanitizeRoomID(input string) string {
	return Pipeline{strings.TrimSpace, removeSpaces}.Apply(input)
}

// SanitizeRequester keeps the requester name readable: control characters
// dropped, whitespace collapsed.
func SanitizeRequester(input string) string {
	return Pipeline{stripControl, TrimAndNormalize}.Apply(input)
}

// SanitizeSlice applies strategy to every value and drops empties and
// duplicates, keeping first-seen order.
func SanitizeSlice(values []string, strategy Strategy) []string {
	seen := make(map[string]struct{})
	out := []string{}

	for _, v := range values {
		s := strategy(v)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	return out
}
