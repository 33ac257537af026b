// Package render draws countdown reports for the terminal.
package render

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
	"golang.org/x/text/width"

	"github.com/username/fished/internal/config"
)

const defaultWidth = 80

// Palette (soft xterm-256 hues)
const (
	weekdayColor   = "#AF87FF"
	weekendColor   = "#E4E4E4"
	sectionColor   = "#5FAFD7"
	holidayFgColor = "#D78787"
	compFgColor    = "#87AFD7"
	todayBgColor   = "#D7D7FF"
)

// Options controls terminal output
type Options struct {
	Color bool
	Width int
}

// DetectOptions resolves the color mode against w. Color and width come from
// the terminal when w is one.
func DetectOptions(colorMode string, w io.Writer) Options {
	opts := Options{Width: defaultWidth}

	fd := -1
	if f, ok := w.(*os.File); ok {
		fd = int(f.Fd())
	}
	isTTY := fd >= 0 && term.IsTerminal(fd)

	if isTTY {
		if cols, _, err := term.GetSize(fd); err == nil && cols > 0 {
			opts.Width = cols
		}
	}

	switch colorMode {
	case config.ColorAlways:
		opts.Color = true
	case config.ColorNever:
		opts.Color = false
	default:
		opts.Color = isTTY && os.Getenv("NO_COLOR") == ""
	}
	return opts
}

type style struct {
	fg   string
	bg   string
	bold bool
}

// paint wraps s in ANSI truecolor sequences when color is enabled
func (o Options) paint(s string, st style) string {
	if !o.Color || s == "" {
		return s
	}
	var b strings.Builder
	if st.bold {
		b.WriteString("\x1b[1m")
	}
	if st.fg != "" {
		r, g, bl := hexToRGB(st.fg)
		fmt.Fprintf(&b, "\x1b[38;2;%d;%d;%dm", r, g, bl)
	}
	if st.bg != "" {
		r, g, bl := hexToRGB(st.bg)
		fmt.Fprintf(&b, "\x1b[48;2;%d;%d;%dm", r, g, bl)
	}
	b.WriteString(s)
	b.WriteString("\x1b[0m")
	return b.String()
}

func hexToRGB(hex string) (r, g, b int) {
	h := strings.TrimPrefix(hex, "#")
	if len(h) != 6 {
		return 0, 0, 0
	}
	parse := func(s string) int {
		n, _ := strconv.ParseUint(s, 16, 8)
		return int(n)
	}
	return parse(h[0:2]), parse(h[2:4]), parse(h[4:6])
}

// mixHex interpolates linearly between two colors, t in [0, 1]
func mixHex(a, b string, t float64) string {
	ar, ag, ab := hexToRGB(a)
	br, bg, bb := hexToRGB(b)
	mix := func(x, y int) int {
		return int(math.Round(float64(x) + float64(y-x)*t))
	}
	return fmt.Sprintf("#%02X%02X%02X", mix(ar, br), mix(ag, bg), mix(ab, bb))
}

// gradientColor returns the bar color of card index out of total
func gradientColor(index, total int) string {
	if total <= 1 {
		return weekdayColor
	}
	return mixHex(weekdayColor, weekendColor, float64(index)/float64(total-1))
}

// visualWidth counts East Asian wide and fullwidth runes as two columns
func visualWidth(s string) int {
	n := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 2
		default:
			n++
		}
	}
	return n
}

func padRightVisual(s string, w int) string {
	if pad := w - visualWidth(s); pad > 0 {
		return s + strings.Repeat(" ", pad)
	}
	return s
}

// truncateVisual cuts s so it occupies at most w columns
func truncateVisual(s string, w int) string {
	if w <= 0 {
		return ""
	}
	if visualWidth(s) <= w {
		return s
	}
	n := 0
	for i, r := range s {
		rw := visualWidth(string(r))
		if n+rw > w {
			return s[:i]
		}
		n += rw
	}
	return s
}

// progressBar draws width cells, the filled share in color and the rest in emptyColor
func (o Options) progressBar(ratio float64, cells int, filledChar, color, emptyColor string) string {
	ratio = math.Max(0, math.Min(1, ratio))
	filled := int(math.Round(float64(cells) * ratio))
	empty := cells - filled

	emptyChar := filledChar
	if !o.Color {
		emptyChar = "░"
	}
	return o.paint(strings.Repeat(filledChar, filled), style{fg: color}) +
		o.paint(strings.Repeat(emptyChar, empty), style{fg: emptyColor})
}
