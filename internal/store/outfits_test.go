package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/erazemk/omara/internal/db"
	"github.com/erazemk/omara/internal/model"
)

func TestCreateOutfitSnapshotsItems(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	top := mustCreateItem(t, ctx, database, newItem("Hoodie", model.TypeTops, model.CategoryLoungewear, "grey"))
	shoes := mustCreateItem(t, ctx, database, newItem("Slippers", model.TypeShoes, model.CategoryLoungewear, "blue"))
	sunday := model.NewDate(2025, time.June, 1)

	outfit, err := CreateOutfit(ctx, database, model.Outfit{
		Name:          "Casual Day",
		Occasion:      "home",
		ScheduledDate: &sunday,
		TimesWorn:     5, // ignored on create
		Items:         []model.Item{*top, *shoes},
	})
	if err != nil {
		t.Fatalf("CreateOutfit: %v", err)
	}
	if outfit.ID == "" {
		t.Fatal("expected an ID to be assigned")
	}
	if outfit.TimesWorn != 0 {
		t.Errorf("expected new outfit to be unworn, got %d", outfit.TimesWorn)
	}
	if outfit.ScheduledDate == nil || !outfit.ScheduledDate.Equal(sunday) {
		t.Errorf("expected scheduled %s, got %v", sunday, outfit.ScheduledDate)
	}
	if outfit.Occasion != "home" || outfit.CreatedAt.IsZero() {
		t.Errorf("unexpected outfit metadata: %+v", outfit)
	}
	if len(outfit.Items) != 2 || outfit.Items[0].ID != top.ID || outfit.Items[1].ID != shoes.ID {
		t.Fatalf("expected items in saved order, got %+v", outfit.Items)
	}

	// Editing the wardrobe item does not change the snapshot.
	top.Name = "Old Hoodie"
	if err := UpdateItem(ctx, database, *top); err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}
	got, _ := GetOutfit(ctx, database, outfit.ID)
	if got.Items[0].Name != "Hoodie" {
		t.Errorf("expected snapshot name 'Hoodie', got %q", got.Items[0].Name)
	}
}

func TestListOutfitsByDate(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	monday := model.NewDate(2025, time.June, 2)
	tuesday := model.NewDate(2025, time.June, 3)

	for _, o := range []model.Outfit{
		{Name: "a", ScheduledDate: &monday},
		{Name: "b", ScheduledDate: &tuesday},
		{Name: "c", ScheduledDate: &monday},
		{Name: "d"},
	} {
		if _, err := CreateOutfit(ctx, database, o); err != nil {
			t.Fatalf("CreateOutfit: %v", err)
		}
	}

	all, err := ListOutfits(ctx, database, nil)
	if err != nil {
		t.Fatalf("ListOutfits: %v", err)
	}
	if len(all) != 4 {
		t.Errorf("expected 4 outfits, got %d", len(all))
	}
	for _, o := range all {
		if o.Items == nil {
			t.Errorf("expected empty, non-nil items for %s", o.Name)
		}
	}

	onMonday, err := ListOutfits(ctx, database, &monday)
	if err != nil {
		t.Fatalf("ListOutfits(monday): %v", err)
	}
	if len(onMonday) != 2 || onMonday[0].Name != "a" || onMonday[1].Name != "c" {
		t.Errorf("expected outfits a and c on Monday, got %+v", onMonday)
	}
}

func TestMarkOutfitWornUpdatesItems(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	top := mustCreateItem(t, ctx, database, newItem("Jersey", model.TypeTops, model.CategorySports, "green"))
	shoes := mustCreateItem(t, ctx, database, newItem("Cleats", model.TypeShoes, model.CategorySports, "black"))
	other := mustCreateItem(t, ctx, database, newItem("Tie", model.TypeAccessories, model.CategoryFormal, "navy"))

	outfit, err := CreateOutfit(ctx, database, model.Outfit{Name: "Active Wear", Items: []model.Item{*top, *shoes}})
	if err != nil {
		t.Fatalf("CreateOutfit: %v", err)
	}

	day := model.NewDate(2025, time.July, 4)
	worn, err := MarkOutfitWorn(ctx, database, outfit.ID, day)
	if err != nil {
		t.Fatalf("MarkOutfitWorn: %v", err)
	}
	if worn.TimesWorn != 1 || worn.LastWorn == nil || !worn.LastWorn.Equal(day) {
		t.Errorf("unexpected outfit after wear: %+v", worn)
	}

	ids := worn.ItemIDs()
	if len(ids) != 2 || ids[0] != top.ID || ids[1] != shoes.ID {
		t.Fatalf("expected outfit item IDs [%s %s], got %v", top.ID, shoes.ID, ids)
	}
	for _, id := range ids {
		it, _ := GetItem(ctx, database, id)
		if it.TimesWorn != 1 || it.LastWorn == nil || !it.LastWorn.Equal(day) {
			t.Errorf("expected item %s worn once on %s, got %+v", id, day, it)
		}
	}

	untouched, _ := GetItem(ctx, database, other.ID)
	if untouched.TimesWorn != 0 {
		t.Errorf("expected unrelated item untouched, got %d wears", untouched.TimesWorn)
	}

	if _, err := MarkOutfitWorn(ctx, database, "missing", day); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteOutfitKeepsItems(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	top := mustCreateItem(t, ctx, database, newItem("Polo", model.TypeTops, model.CategoryCasual, "white"))
	outfit, _ := CreateOutfit(ctx, database, model.Outfit{Name: "Daily Outfit", Items: []model.Item{*top}})

	if err := DeleteOutfit(ctx, database, outfit.ID); err != nil {
		t.Fatalf("DeleteOutfit: %v", err)
	}

	got, _ := GetOutfit(ctx, database, outfit.ID)
	if got != nil {
		t.Error("expected outfit to be gone")
	}

	var snapshots int
	database.QueryRow(`SELECT COUNT(*) FROM outfit_items`).Scan(&snapshots)
	if snapshots != 0 {
		t.Errorf("expected snapshots to cascade, got %d rows", snapshots)
	}

	if it, _ := GetItem(ctx, database, top.ID); it == nil {
		t.Error("expected wardrobe item to survive outfit deletion")
	}

	if err := DeleteOutfit(ctx, database, outfit.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
