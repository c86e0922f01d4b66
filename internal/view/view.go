// Package view builds render-ready view models from recipe data. Everything
// here is pure -- no terminal, no network -- so the state transitions the UI
// depends on are testable on their own.
package view

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/snapbasket/snapbasket/internal/domain"
)

// neededPreviewCap is how many "you need" entries a card shows before
// collapsing the rest into a "+N more" count. The detail view is uncapped.
const neededPreviewCap = 5

// BadgeTier maps to the visual weight of the match badge.
type BadgeTier int

const (
	// TierNeutral is the low-match and browse-mode tier.
	TierNeutral BadgeTier = iota
	// TierWarning marks a partial match (25-49%).
	TierWarning
	// TierSuccess marks a strong match (50% and up).
	TierSuccess
)

// Badge is the colored match indicator on a card.
type Badge struct {
	Text string
	Tier BadgeTier
}

// matchBadge picks the tier for a match percentage. The 50 boundary is
// inclusive on the success side, 25 on the warning side.
func matchBadge(percent int) Badge {
	b := Badge{Text: fmt.Sprintf("%d%% Match", percent)}
	switch {
	case percent >= 50:
		b.Tier = TierSuccess
	case percent >= 25:
		b.Tier = TierWarning
	default:
		b.Tier = TierNeutral
	}
	return b
}

// Card is one recipe as rendered on the list page.
type Card struct {
	Index      int // 1-based position on the current page, used for open/fav commands
	Name       string
	Emoji      string
	Time       string
	Servings   string
	Difficulty string
	Mode       domain.DisplayMode
	Badge      Badge
	Meta       string   // "3 of 8 ingredients" / "8 total ingredients"
	Favorite   bool
	Owned      []string // formatted; empty in browse mode
	Required   []string // formatted; capped on cards, full requirement in browse mode
	MoreCount  int      // how many Required entries were hidden by the cap
}

// Detail is the uncapped modal view of a recipe.
type Detail struct {
	Name         string
	Emoji        string
	Meta         string // "20 min • 2 servings • Easy"
	Badge        Badge
	Mode         domain.DisplayMode
	Favorite     bool
	Owned        []string
	Required     []string
	Instructions string
}

// Favorites answers membership questions for card building.
type Favorites interface {
	Has(name string) bool
}

// BuildCard maps a recipe to its card view model. The display mode follows
// the presence of match data: recommendation results show owned vs needed,
// catalog records show the full requirement list.
func BuildCard(index int, r *domain.Recipe, favs Favorites) Card {
	c := Card{
		Index:      index,
		Name:       r.Name,
		Emoji:      emoji(r),
		Time:       r.Time,
		Servings:   r.Servings.String(),
		Difficulty: r.Difficulty,
		Favorite:   favs != nil && favs.Has(r.Name),
	}

	if r.Recommended() {
		c.Mode = domain.ModeRecommendation
		c.Badge = matchBadge(*r.MatchPercent)
		c.Meta = fmt.Sprintf("%d of %d ingredients", r.MatchedCount, r.TotalCount)
		c.Owned = formatAll(r.MatchedIngredients)
		needed := formatAll(r.NeededIngredients)
		if len(needed) > neededPreviewCap {
			c.MoreCount = len(needed) - neededPreviewCap
			needed = needed[:neededPreviewCap]
		}
		c.Required = needed
		return c
	}

	c.Mode = domain.ModeBrowse
	c.Badge = Badge{Text: "All Ingredients", Tier: TierNeutral}
	c.Meta = fmt.Sprintf("%d total ingredients", len(r.Ingredients))
	c.Required = formatAll(r.Ingredients)
	return c
}

// BuildDetail maps a recipe to its detail view model with uncapped lists.
func BuildDetail(r *domain.Recipe, favs Favorites) Detail {
	d := Detail{
		Name:         r.Name,
		Emoji:        emoji(r),
		Meta:         fmt.Sprintf("%s • %s servings • %s", r.Time, r.Servings.String(), r.Difficulty),
		Favorite:     favs != nil && favs.Has(r.Name),
		Instructions: r.Instructions,
	}

	if r.Recommended() {
		d.Mode = domain.ModeRecommendation
		d.Badge = matchBadge(*r.MatchPercent)
		d.Owned = formatAll(r.MatchedIngredients)
		d.Required = formatAll(r.NeededIngredients)
		return d
	}

	d.Mode = domain.ModeBrowse
	d.Badge = Badge{Text: "All Ingredients", Tier: TierNeutral}
	d.Required = formatAll(r.Ingredients)
	return d
}

func emoji(r *domain.Recipe) string {
	if r.Image == "" {
		return "🍽️"
	}
	return r.Image
}

// FormatIngredient turns a detection class name into a display label:
// underscores become spaces and every word is capitalized, so
// "red_bell_pepper" reads as "Red Bell Pepper".
func FormatIngredient(name string) string {
	name = strings.ReplaceAll(name, "_", " ")
	words := strings.Fields(name)
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

func formatAll(names []string) []string {
	if len(names) == 0 {
		return nil
	}
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = FormatIngredient(n)
	}
	return out
}
