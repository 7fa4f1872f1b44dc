// Package placeholder protects template interpolation markers like
// {{name}} inside translatable text across a translation round trip.
//
// Markers are swapped for index-based tokens of the form @@0@@, @@1@@, …
// before the text is sent to the provider, and swapped back afterwards.
// Providers pass the tokens through untouched, so the markers survive
// translation byte-for-byte.
package placeholder

import (
	"fmt"
	"regexp"
	"strings"
)

// pattern matches a double-brace delimited marker, non-greedy so that
// "{{a}} and {{b}}" yields two matches instead of one.
var pattern = regexp.MustCompile(`\{\{.*?\}\}`)

// Protect replaces every marker in text with its protection token and
// returns the protected text together with the marker→token map needed
// by Restore. Text without markers is returned unchanged with a nil map.
//
// Tokens are assigned per occurrence index in scan order. When the same
// marker text occurs more than once, every occurrence ends up carrying
// the token of the last occurrence index; Restore still maps it back to
// the identical marker text, so the round trip is lossless.
func Protect(text string) (string, map[string]string) {
	markers := pattern.FindAllString(text, -1)
	if len(markers) == 0 {
		return text, nil
	}

	tokens := make(map[string]string, len(markers))
	for i, m := range markers {
		tokens[m] = fmt.Sprintf("@@%d@@", i)
	}
	for m, token := range tokens {
		text = strings.ReplaceAll(text, m, token)
	}
	return text, tokens
}

// Restore replaces protection tokens back with their original markers.
// It is the exact inverse of Protect for any text whose tokens survived
// translation unchanged.
func Restore(text string, tokens map[string]string) string {
	for m, token := range tokens {
		text = strings.ReplaceAll(text, token, m)
	}
	return text
}
