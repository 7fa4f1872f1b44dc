package translate

import (
	"strings"

	"github.com/deeploc/deeploc/jsonfile"
)

// Count returns the number of translatable phrases and whitespace-
// delimited words in a JSON value. A phrase is a string leaf whose
// trimmed form is non-empty; object keys, non-string scalars, and blank
// strings contribute nothing.
func Count(value jsonfile.Value) (phrases, words int) {
	switch v := value.(type) {
	case jsonfile.Object:
		for _, m := range v {
			p, w := Count(m.Value)
			phrases += p
			words += w
		}
	case jsonfile.Array:
		for _, item := range v {
			p, w := Count(item)
			phrases += p
			words += w
		}
	case jsonfile.String:
		if strings.TrimSpace(string(v)) != "" {
			phrases++
			words += len(strings.Fields(string(v)))
		}
	}
	return phrases, words
}
