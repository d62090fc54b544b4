package outfit

import "github.com/erazemk/omara/internal/model"

// DateNameLayout formats scheduled outfit names, e.g. "Jan 5, 2025".
const DateNameLayout = "Jan 2, 2006"

// FallbackName is used when no category rule matches.
const FallbackName = "Daily Outfit"

var categoryNames = []struct {
	category model.Category
	name     string
}{
	{model.CategoryFormal, "Formal Look"},
	{model.CategorySports, "Active Wear"},
	{model.CategoryLoungewear, "Casual Day"},
}

// Name derives a label for an outfit. A scheduled date always wins; otherwise
// the highest-priority category present decides.
func Name(items []model.Item, scheduled *model.Date) string {
	if scheduled != nil {
		return scheduled.Time().Format(DateNameLayout)
	}

	present := make(map[model.Category]bool, len(items))
	for _, it := range items {
		present[it.Category] = true
	}
	for _, cn := range categoryNames {
		if present[cn.category] {
			return cn.name
		}
	}
	return FallbackName
}
