package model

import "slices"

// Type is the outfit slot an item fills.
type Type string

// Item types, in outfit slot order.
const (
	TypeTops        Type = "tops"
	TypeBottoms     Type = "bottoms"
	TypeOuterwear   Type = "outerwear"
	TypeShoes       Type = "shoes"
	TypeAccessories Type = "accessories"
)

// Types lists every item type in slot order.
var Types = []Type{TypeTops, TypeBottoms, TypeOuterwear, TypeShoes, TypeAccessories}

// Valid reports whether t is one of the known types.
func (t Type) Valid() bool {
	return slices.Contains(Types, t)
}

// Category is the style group of an item.
type Category string

// Item categories.
const (
	CategoryCasual     Category = "casual"
	CategorySports     Category = "sports"
	CategoryFormal     Category = "formal"
	CategoryLoungewear Category = "loungewear"
)

// Categories lists every category in display order.
var Categories = []Category{CategoryCasual, CategorySports, CategoryFormal, CategoryLoungewear}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	return slices.Contains(Categories, c)
}

// Item is a single piece of clothing in the wardrobe.
type Item struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Type      Type     `json:"type"`
	Color     string   `json:"color"`
	Category  Category `json:"category"`
	ImageURL  string   `json:"imageUrl"`
	TimesWorn int      `json:"timesWorn"`
	LastWorn  *Date    `json:"lastWorn,omitempty"`
}

// Worn returns a copy of the item with one more wear recorded on day.
func (i Item) Worn(day Date) Item {
	i.TimesWorn++
	i.LastWorn = &day
	return i
}
