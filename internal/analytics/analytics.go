// Package analytics computes wear statistics and resale suggestions over a
// wardrobe. Every function is pure: inputs are never modified and results
// are freshly allocated.
package analytics

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/erazemk/omara/internal/model"
)

// Defaults for list sizes and the resale heuristic.
const (
	DefaultLimit    = 5
	TopColors       = 5
	ResaleMaxWears  = 2
	ResaleStaleDays = 60
)

// DefaultValue is the estimate for items with an unrecognised category.
var DefaultValue = decimal.NewFromInt(20)

var categoryValues = map[model.Category]decimal.Decimal{
	model.CategoryFormal:     decimal.NewFromInt(40),
	model.CategoryCasual:     decimal.NewFromInt(20),
	model.CategorySports:     decimal.NewFromInt(25),
	model.CategoryLoungewear: decimal.NewFromInt(15),
}

// MostWorn returns up to n items ordered by wear count, highest first.
// Items with equal counts keep their original order.
func MostWorn(items []model.Item, n int) []model.Item {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b model.Item) int {
		return cmp.Compare(b.TimesWorn, a.TimesWorn)
	})
	return head(sorted, n)
}

// IsResaleCandidate reports whether an item is under-used as of ref: worn
// at most twice, never recorded as worn, or last worn more than 60 days
// before ref.
func IsResaleCandidate(item model.Item, ref model.Date) bool {
	if item.TimesWorn <= ResaleMaxWears {
		return true
	}
	if item.LastWorn == nil {
		return true
	}
	return item.LastWorn.Before(ref.AddDays(-ResaleStaleDays))
}

// ResaleCandidates returns up to n under-used items, least worn first.
func ResaleCandidates(items []model.Item, n int, ref model.Date) []model.Item {
	var candidates []model.Item
	for _, it := range items {
		if IsResaleCandidate(it, ref) {
			candidates = append(candidates, it)
		}
	}
	slices.SortStableFunc(candidates, func(a, b model.Item) int {
		return cmp.Compare(a.TimesWorn, b.TimesWorn)
	})
	return head(candidates, n)
}

// ColorCount is the number of items sharing a colour.
type ColorCount struct {
	Color string `json:"color"`
	Count int    `json:"count"`
}

var colorCaser = cases.Lower(language.Und)

// ColorKey normalises a colour for grouping: "Black" and " black" count
// as the same colour.
func ColorKey(color string) string {
	return colorCaser.String(strings.TrimSpace(color))
}

// ColorDistribution returns the five most common colours, most common
// first. Ties keep the order in which colours first appear.
func ColorDistribution(items []model.Item) []ColorCount {
	var counts []ColorCount
	index := make(map[string]int)
	for _, it := range items {
		key := ColorKey(it.Color)
		if i, ok := index[key]; ok {
			counts[i].Count++
			continue
		}
		index[key] = len(counts)
		counts = append(counts, ColorCount{Color: key, Count: 1})
	}
	slices.SortStableFunc(counts, func(a, b ColorCount) int {
		return cmp.Compare(b.Count, a.Count)
	})
	return head(counts, TopColors)
}

// CategoryCount is the number of items in a category.
type CategoryCount struct {
	Category model.Category `json:"category"`
	Count    int            `json:"count"`
}

// CategoryDistribution counts items in every known category, in
// model.Categories order. Categories with no items are included.
func CategoryDistribution(items []model.Item) []CategoryCount {
	counts := make(map[model.Category]int, len(model.Categories))
	for _, it := range items {
		counts[it.Category]++
	}
	out := make([]CategoryCount, 0, len(model.Categories))
	for _, c := range model.Categories {
		out = append(out, CategoryCount{Category: c, Count: counts[c]})
	}
	return out
}

// EstimatedValue is a rough resale price for an item based on its category.
func EstimatedValue(item model.Item) decimal.Decimal {
	if v, ok := categoryValues[item.Category]; ok {
		return v
	}
	return DefaultValue
}

// ResaleValue sums the estimated value of items.
func ResaleValue(items []model.Item) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(EstimatedValue(it))
	}
	return total
}

// Stats are wardrobe-wide wear totals.
type Stats struct {
	TotalItems int     `json:"totalItems"`
	TotalWears int     `json:"totalWears"`
	AvgWears   float64 `json:"avgWears"`
}

// Summary totals wears across items. AvgWears is rounded to one decimal
// place and is zero for an empty wardrobe.
func Summary(items []model.Item) Stats {
	s := Stats{TotalItems: len(items)}
	for _, it := range items {
		s.TotalWears += it.TimesWorn
	}
	if s.TotalItems > 0 {
		avg := float64(s.TotalWears) / float64(s.TotalItems)
		s.AvgWears = math.Round(avg*10) / 10
	}
	return s
}

// ScheduleStats describe how many outfits are planned on the calendar.
type ScheduleStats struct {
	ScheduledOutfits int `json:"scheduledOutfits"`
	ScheduledDays    int `json:"scheduledDays"`
}

// Schedule counts outfits with a scheduled date and the distinct days
// they cover.
func Schedule(outfits []model.Outfit) ScheduleStats {
	var s ScheduleStats
	days := make(map[string]struct{})
	for _, o := range outfits {
		if o.ScheduledDate == nil {
			continue
		}
		s.ScheduledOutfits++
		days[o.ScheduledDate.String()] = struct{}{}
	}
	s.ScheduledDays = len(days)
	return s
}

func head[T any](s []T, n int) []T {
	if n <= 0 {
		n = DefaultLimit
	}
	if len(s) > n {
		s = s[:n]
	}
	if s == nil {
		return []T{}
	}
	return s
}
