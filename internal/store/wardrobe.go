package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/erazemk/omara/internal/model"
)

// LoadWardrobe returns every item and outfit.
func LoadWardrobe(ctx context.Context, db *sql.DB) (*model.Wardrobe, error) {
	items, err := ListItems(ctx, db, ItemFilter{})
	if err != nil {
		return nil, err
	}
	outfits, err := ListOutfits(ctx, db, nil)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.Item{}
	}
	if outfits == nil {
		outfits = []model.Outfit{}
	}
	return &model.Wardrobe{Clothes: items, Outfits: outfits}, nil
}

// ImportResult counts what ImportWardrobe wrote.
type ImportResult struct {
	Items   int `json:"items"`
	Outfits int `json:"outfits"`
}

// ImportWardrobe writes items and outfits in a single transaction. Records
// whose IDs already exist are replaced, including wear counters, so an
// export can be re-imported as-is.
func ImportWardrobe(ctx context.Context, db *sql.DB, w model.Wardrobe) (*ImportResult, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, it := range w.Clothes {
		if it.ID == "" {
			it.ID = uuid.NewString()
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO items (id, name, type, color, category, image_url, times_worn, last_worn)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT (id) DO UPDATE SET
			     name = excluded.name, type = excluded.type, color = excluded.color,
			     category = excluded.category, image_url = excluded.image_url,
			     times_worn = excluded.times_worn, last_worn = excluded.last_worn,
			     updated_at = CURRENT_TIMESTAMP`,
			it.ID, it.Name, string(it.Type), it.Color, string(it.Category), it.ImageURL,
			it.TimesWorn, dateArg(it.LastWorn),
		)
		if err != nil {
			return nil, fmt.Errorf("importing item %s: %w", it.ID, err)
		}
	}

	for _, o := range w.Outfits {
		if o.ID == "" {
			o.ID = uuid.NewString()
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM outfits WHERE id = ?`, o.ID); err != nil {
			return nil, fmt.Errorf("replacing outfit %s: %w", o.ID, err)
		}
		if err := insertOutfit(ctx, tx, o); err != nil {
			return nil, fmt.Errorf("importing outfit %s: %w", o.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing import: %w", err)
	}

	return &ImportResult{Items: len(w.Clothes), Outfits: len(w.Outfits)}, nil
}
