// Package domain defines the core types and interfaces for the snap-to-recipe
// client. All other packages depend on domain; domain depends on nothing.
package domain

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Recipe is the wire shape consumed from the recommendation backend and the
// embedded catalog. Records are read-only on the client; the recipe name is
// its identity (there is no numeric ID model).
type Recipe struct {
	Name         string   `json:"name"`
	Image        string   `json:"image"` // an emoji, not a URL
	Time         string   `json:"time"`
	Servings     Servings `json:"servings"`
	Difficulty   string   `json:"difficulty"`
	Instructions string   `json:"instructions"`
	Ingredients  []string `json:"ingredients"`

	// Recommendation-only fields. MatchPercent is nil for catalog records,
	// which is what switches a card into browse mode.
	MatchedIngredients []string `json:"matched_ingredients,omitempty"`
	NeededIngredients  []string `json:"needed_ingredients,omitempty"`
	MatchedCount       int      `json:"matched_count,omitempty"`
	TotalCount         int      `json:"total_count,omitempty"`
	MatchPercent       *int     `json:"match_percent,omitempty"`
}

// Recommended reports whether this record came from the recommendation
// endpoint (match data present) rather than the catalog.
func (r *Recipe) Recommended() bool { return r.MatchPercent != nil }

// Servings tolerates both the numeric and the free-text form the backend
// emits ("4" vs "4-6 people"). It renders as text either way.
type Servings string

// UnmarshalJSON accepts a JSON string or number.
func (s *Servings) UnmarshalJSON(data []byte) error {
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		*s = Servings(asString)
		return nil
	}
	var asNumber json.Number
	if err := json.Unmarshal(data, &asNumber); err != nil {
		return err
	}
	*s = Servings(asNumber.String())
	return nil
}

// MarshalJSON keeps the numeric form numeric so round-trips stay faithful.
func (s Servings) MarshalJSON() ([]byte, error) {
	if n, err := strconv.Atoi(string(s)); err == nil {
		return json.Marshal(n)
	}
	return json.Marshal(string(s))
}

// String returns the servings text, defaulting to "4" when unset.
func (s Servings) String() string {
	if strings.TrimSpace(string(s)) == "" {
		return "4"
	}
	return string(s)
}

// DisplayMode selects how a recipe card presents its ingredient lists.
type DisplayMode int

const (
	// ModeRecommendation shows the basket match: owned vs still needed.
	ModeRecommendation DisplayMode = iota
	// ModeBrowse shows the full requirement list without basket context.
	ModeBrowse
)

// String returns a human-readable display mode.
func (m DisplayMode) String() string {
	switch m {
	case ModeRecommendation:
		return "recommendation"
	case ModeBrowse:
		return "browse"
	default:
		return "unknown"
	}
}
