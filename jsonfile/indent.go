package jsonfile

import (
	"os"
	"strings"
)

// DefaultIndent is used when a file's indentation cannot be determined.
const DefaultIndent = 4

// DetectIndent returns the indentation width of a JSON file, detected as
// the smallest non-zero leading-whitespace run across its lines. Files
// without any indented line, and files that cannot be read, report
// DefaultIndent so the output still round-trips to something sensible.
func DetectIndent(path string) int {
	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultIndent
	}

	min := 0
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		width := len(line) - len(strings.TrimLeft(line, " \t"))
		if width == 0 {
			continue
		}
		if min == 0 || width < min {
			min = width
		}
	}

	if min == 0 {
		return DefaultIndent
	}
	return min
}
