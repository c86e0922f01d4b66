package display

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestCenterArtPadsToWidth(t *testing.T) {
	art := "####\n##\n"
	out := centerArt(art, 20)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	// (20 - 4) / 2 columns of padding on every line.
	for _, l := range lines {
		if !strings.HasPrefix(l, strings.Repeat(" ", 8)) {
			t.Errorf("line %q not centred for width 20", l)
		}
	}
}

func TestCenterArtNarrowTerminalFallsBack(t *testing.T) {
	art := strings.Repeat("#", 60) + "\n"
	out := centerArt(art, 40)

	if strings.Contains(out, "#") {
		t.Fatal("art wider than the terminal should not be emitted")
	}
	if !strings.Contains(out, fallbackTitle) {
		t.Fatalf("expected fallback title, got %q", out)
	}
}

func TestCenterArtMeasuresRunes(t *testing.T) {
	// Multibyte art must be measured in runes, not bytes.
	art := strings.Repeat("█", 10) + "\n"
	out := centerArt(art, 20)
	if strings.Contains(out, fallbackTitle) {
		t.Fatal("10-rune art fits a 20-column terminal")
	}

	line := strings.TrimRight(out, "\n")
	leading := len(line) - len(strings.TrimLeft(line, " "))
	if want := (20 - utf8.RuneCountInString(strings.TrimRight(art, "\n"))) / 2; leading != want {
		t.Errorf("leading pad = %d, want %d", leading, want)
	}
}

func TestBundledBannerRenders(t *testing.T) {
	if strings.TrimSpace(bannerRaw) == "" {
		t.Fatal("embedded banner art is empty")
	}
	if out := centerArt(bannerRaw, 200); strings.Contains(out, fallbackTitle) {
		t.Error("bundled art should fit a 200-column terminal")
	}
}
