package analytics

import (
	"github.com/shopspring/decimal"

	"github.com/erazemk/omara/internal/model"
)

// ResaleItem is a resale candidate with its estimated value.
type ResaleItem struct {
	model.Item
	EstimatedValue decimal.Decimal `json:"estimatedValue"`
}

// Report bundles every analytic for one reference date.
type Report struct {
	ReferenceDate model.Date      `json:"referenceDate"`
	Stats         Stats           `json:"stats"`
	MostWorn      []model.Item    `json:"mostWorn"`
	Resale        []ResaleItem    `json:"resale"`
	ResaleValue   decimal.Decimal `json:"resaleValue"`
	Colors        []ColorCount    `json:"colors"`
	Categories    []CategoryCount `json:"categories"`
	Schedule      ScheduleStats   `json:"schedule"`
}

// Build computes a full report. n limits the most-worn and resale lists.
func Build(items []model.Item, outfits []model.Outfit, ref model.Date, n int) Report {
	candidates := ResaleCandidates(items, n, ref)
	resale := make([]ResaleItem, 0, len(candidates))
	for _, it := range candidates {
		resale = append(resale, ResaleItem{Item: it, EstimatedValue: EstimatedValue(it)})
	}

	return Report{
		ReferenceDate: ref,
		Stats:         Summary(items),
		MostWorn:      MostWorn(items, n),
		Resale:        resale,
		ResaleValue:   ResaleValue(candidates),
		Colors:        ColorDistribution(items),
		Categories:    CategoryDistribution(items),
		Schedule:      Schedule(outfits),
	}
}
