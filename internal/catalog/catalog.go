// Package catalog bundles the offline recipe list into the binary so browse
// and favorites views work with zero network access.
package catalog

import (
	_ "embed"
	"encoding/json"
	"sort"

	"github.com/snapbasket/snapbasket/internal/domain"
	"github.com/snapbasket/snapbasket/internal/logger"
)

//go:embed recipes.json
var recipesRaw []byte

// Compile-time interface check.
var _ domain.CatalogSource = (*Embedded)(nil)

// Embedded serves the statically bundled recipe list. Catalog records never
// carry a match percent -- they always render in browse mode.
type Embedded struct {
	recipes []domain.Recipe
	log     *logger.Logger
}

// NewEmbedded parses the bundled catalog. The embedded JSON is part of the
// build, so a parse failure is a programming error and panics at startup.
func NewEmbedded(log *logger.Logger) *Embedded {
	var recipes []domain.Recipe
	if err := json.Unmarshal(recipesRaw, &recipes); err != nil {
		panic("catalog: embedded recipes.json is invalid: " + err.Error())
	}
	sort.Slice(recipes, func(i, j int) bool { return recipes[i].Name < recipes[j].Name })
	log.Debug("catalog: %d embedded recipes", len(recipes))
	return &Embedded{recipes: recipes, log: log}
}

// All returns the full catalog. Callers must treat the slice as read-only.
func (e *Embedded) All() []domain.Recipe {
	return e.recipes
}

// Named returns the catalog entries whose names are in the given set,
// preserving catalog order. Used for the favorites view.
func (e *Embedded) Named(names map[string]struct{}) []domain.Recipe {
	var out []domain.Recipe
	for _, r := range e.recipes {
		if _, ok := names[r.Name]; ok {
			out = append(out, r)
		}
	}
	return out
}

// Get returns a catalog recipe by name.
func (e *Embedded) Get(name string) (*domain.Recipe, error) {
	for i := range e.recipes {
		if e.recipes[i].Name == name {
			return &e.recipes[i], nil
		}
	}
	return nil, domain.ErrNotFound
}
