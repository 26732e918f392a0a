package colour

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

const (
	ansiReset        = "\033[0m"
	defaultBlockSize = 8
)

func ansiBackground(c RGB) string {
	return fmt.Sprintf("\033[48;2;%d;%d;%dm", c.R, c.G, c.B)
}

// ColourPreview returns a solid block of width cells in colour c, drawn
// with a 24-bit ANSI background.
func ColourPreview(c RGB, width int) string {
	if width <= 0 {
		width = defaultBlockSize
	}
	return ansiBackground(c) + strings.Repeat(" ", width) + ansiReset
}

// FormatEntry renders an entry the way a swatch looks on the page: a
// block in the entry's colour followed by its hex and RGB labels.
func FormatEntry(e Entry, width int) string {
	rgb := RGB{R: uint8(e.RGB[0]), G: uint8(e.RGB[1]), B: uint8(e.RGB[2])} // #nosec G115 - entries hold clamped channels
	return fmt.Sprintf("%s  %s  %s", ColourPreview(rgb, width), e.Hex, e.Tuple())
}

// SupportsANSIColours reports whether w is a terminal and NO_COLOR is unset.
func SupportsANSIColours(w io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd())) // #nosec G115 - file descriptors fit in int
}
