// Package outfit assembles outfits from wardrobe items and names them.
package outfit

import (
	"math/rand/v2"

	"github.com/erazemk/omara/internal/model"
)

// MinDominantCount is how many items a category needs before generation
// favours it.
const MinDominantCount = 2

// Rand picks a random index in [0, n). *rand.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// DefaultRand draws from the goroutine-safe top-level generator.
var DefaultRand Rand = globalRand{}

// Generate picks at most one item per slot, in slot order, preferring items
// from the wardrobe's dominant category. Slots with no items are skipped.
func Generate(items []model.Item, rng Rand) []model.Item {
	outfit := []model.Item{}
	if len(items) == 0 {
		return outfit
	}
	if rng == nil {
		rng = DefaultRand
	}

	byType := make(map[model.Type][]model.Item, len(model.Types))
	for _, it := range items {
		byType[it.Type] = append(byType[it.Type], it)
	}

	dominant, ok := DominantCategory(items)

	for _, slot := range model.Types {
		group := byType[slot]
		if len(group) == 0 {
			continue
		}

		pool := group
		if ok {
			if matching := withCategory(group, dominant); len(matching) > 0 {
				pool = matching
			}
		}
		outfit = append(outfit, pool[rng.IntN(len(pool))])
	}

	return outfit
}

// DominantCategory returns the category with the most items. Ties go to the
// category listed first in model.Categories. It reports false when no
// category reaches MinDominantCount.
func DominantCategory(items []model.Item) (model.Category, bool) {
	counts := make(map[model.Category]int, len(model.Categories))
	for _, it := range items {
		counts[it.Category]++
	}

	var best model.Category
	bestCount := 0
	for _, c := range model.Categories {
		if counts[c] > bestCount {
			best, bestCount = c, counts[c]
		}
	}
	if bestCount < MinDominantCount {
		return "", false
	}
	return best, true
}

func withCategory(items []model.Item, c model.Category) []model.Item {
	var out []model.Item
	for _, it := range items {
		if it.Category == c {
			out = append(out, it)
		}
	}
	return out
}
