package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/snapbasket/snapbasket/internal/view"
)

// Badge colors follow the same tiers as the match percentages they show.
var (
	badgeSuccess = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#052e16")).
			Background(lipgloss.Color("#86efac")).
			Padding(0, 1)

	badgeWarning = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#451a03")).
			Background(lipgloss.Color("#fcd34d")).
			Padding(0, 1)

	badgeNeutral = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4d4d8")).
			Background(lipgloss.Color("#3f3f46")).
			Padding(0, 1)

	ownedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bbf7d0"))

	neededStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fdba74"))

	heartStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f9a8d4"))
)

func renderBadge(b view.Badge) string {
	switch b.Tier {
	case view.TierSuccess:
		return badgeSuccess.Render(b.Text)
	case view.TierWarning:
		return badgeWarning.Render(b.Text)
	default:
		return badgeNeutral.Render(b.Text)
	}
}

// PrintCard writes one recipe card above the prompt.
func (u *UI) PrintCard(c view.Card) {
	heart := "  "
	if c.Favorite {
		heart = heartStyle.Render("♥ ")
	}
	u.PrintHeading(fmt.Sprintf("%2d. %s %s %s %s", c.Index, c.Emoji, c.Name, heart, renderBadge(c.Badge)))
	u.PrintHint(fmt.Sprintf("    %s • %s servings • %s • %s", c.Time, c.Servings, c.Difficulty, c.Meta))

	if len(c.Owned) > 0 {
		u.Println(ownedStyle.Render("      have: " + strings.Join(c.Owned, ", ")))
	}
	if len(c.Required) > 0 {
		line := "      need: " + strings.Join(c.Required, ", ")
		if c.MoreCount > 0 {
			line += fmt.Sprintf(" +%d more", c.MoreCount)
		}
		u.Println(neededStyle.Render(line))
	}
}

// PrintPage renders a full card page with its paging caption.
func (u *UI) PrintPage(title string, cards []view.Card, pager view.Pager) {
	u.Println()
	u.PrintHeading(title)
	if len(cards) == 0 {
		u.PrintHint("    nothing here yet")
		return
	}
	for _, c := range cards {
		u.Println()
		u.PrintCard(c)
	}
	if pager.ShowControls() {
		u.Println()
		u.PrintHint("    " + pager.Label() + "  (next/prev to page)")
	}
}

// PrintDetail renders the full recipe view.
func (u *UI) PrintDetail(d view.Detail) {
	heart := ""
	if d.Favorite {
		heart = " " + heartStyle.Render("♥")
	}
	u.Println()
	u.PrintHeading(fmt.Sprintf("%s %s%s %s", d.Emoji, d.Name, heart, renderBadge(d.Badge)))
	u.PrintHint("    " + d.Meta)

	if len(d.Owned) > 0 {
		u.Println(ownedStyle.Render("      you have: " + strings.Join(d.Owned, ", ")))
	}
	if len(d.Required) > 0 {
		label := "      ingredients: "
		if len(d.Owned) > 0 {
			label = "      you need: "
		}
		u.Println(neededStyle.Render(label + strings.Join(d.Required, ", ")))
	}
	if d.Instructions != "" {
		u.Println()
		u.PrintLine(d.Instructions)
	}
}
