package translate

import (
	"fmt"

	"github.com/mattn/go-runewidth"
)

// excerptWidth is the display width of each side of the progress line.
const excerptWidth = 50

// ProgressLineWidth is the total display width of a rendered progress
// line; callers overwrite this many columns when clearing it.
const ProgressLineWidth = excerptWidth*2 + 4

// FormatProgressLine renders one leaf's live progress line: the source
// excerpt right-justified, an arrow, and the target excerpt
// left-justified. Both sides are clipped to a fixed display width with
// an ellipsis marker, using terminal cell widths so wide characters
// don't break the alignment.
func FormatProgressLine(source, target string) string {
	return fmt.Sprintf(" %s → %s",
		runewidth.FillLeft(shorten(source), excerptWidth),
		runewidth.FillRight(shorten(target), excerptWidth))
}

func shorten(text string) string {
	if runewidth.StringWidth(text) <= excerptWidth {
		return text
	}
	return runewidth.Truncate(text, excerptWidth, "...")
}
