package display

import (
	_ "embed"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/x/term"
)

//go:embed banner.txt
var bannerRaw string

// fallbackTitle replaces the art on terminals too narrow to hold it.
const fallbackTitle = "~ snapbasket ~"

// RenderBanner returns the startup banner centred for the current terminal
// width. Terminals narrower than the art get a plain title line instead of
// wrapped garbage. To change the art just replace banner.txt.
func RenderBanner() string {
	return centerArt(bannerRaw, termWidth())
}

func centerArt(raw string, width int) string {
	lines := strings.Split(strings.TrimRight(raw, "\n"), "\n")
	if len(lines) == 0 {
		return ""
	}

	// Widest line in runes; the art may use box-drawing characters.
	maxW := 0
	for _, l := range lines {
		if n := utf8.RuneCountInString(l); n > maxW {
			maxW = n
		}
	}

	if width < maxW {
		pad := (width - utf8.RuneCountInString(fallbackTitle)) / 2
		if pad < 0 {
			pad = 0
		}
		return strings.Repeat(" ", pad) + BannerStyle.Render(fallbackTitle) + "\n"
	}

	pad := (width - maxW) / 2
	var b strings.Builder
	for _, l := range lines {
		if pad > 0 {
			b.WriteString(strings.Repeat(" ", pad))
		}
		b.WriteString(BannerStyle.Render(l))
		b.WriteByte('\n')
	}
	return b.String()
}

// termWidth returns the current terminal column count, or 80 as fallback.
func termWidth() int {
	if w, _, err := term.GetSize(os.Stdout.Fd()); err == nil && w > 0 {
		return w
	}
	return 80
}
