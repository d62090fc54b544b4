package model

import "time"

// Outfit is a saved combination of items. Items are snapshots taken when
// the outfit was saved, not live references into the wardrobe.
type Outfit struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Occasion      string    `json:"occasion,omitempty"`
	Items         []Item    `json:"items"`
	TimesWorn     int       `json:"timesWorn"`
	LastWorn      *Date     `json:"lastWorn,omitempty"`
	ScheduledDate *Date     `json:"scheduledDate,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ItemIDs returns the IDs of the outfit's items in order.
func (o Outfit) ItemIDs() []string {
	ids := make([]string, 0, len(o.Items))
	for _, it := range o.Items {
		ids = append(ids, it.ID)
	}
	return ids
}

// Wardrobe is the full persisted state, in the shape the browser client
// keeps in local storage.
type Wardrobe struct {
	Clothes []Item   `json:"clothes"`
	Outfits []Outfit `json:"outfits"`
}
