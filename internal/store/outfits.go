package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/erazemk/omara/internal/model"
)

const outfitColumns = `id, name, occasion, times_worn, last_worn, scheduled_date, created_at`

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func scanOutfit(row rowScanner) (model.Outfit, error) {
	var o model.Outfit
	var occasion, lastWorn, scheduled sql.NullString
	if err := row.Scan(&o.ID, &o.Name, &occasion, &o.TimesWorn, &lastWorn, &scheduled, &o.CreatedAt); err != nil {
		return o, err
	}
	o.Occasion = occasion.String

	var err error
	if o.LastWorn, err = parseDate(lastWorn); err != nil {
		return o, err
	}
	if o.ScheduledDate, err = parseDate(scheduled); err != nil {
		return o, err
	}
	return o, nil
}

// CreateOutfit saves an outfit with snapshots of its items. A new ID is
// assigned when the outfit has none; wear counters start at zero.
func CreateOutfit(ctx context.Context, db *sql.DB, o model.Outfit) (*model.Outfit, error) {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	o.TimesWorn = 0
	o.LastWorn = nil
	o.CreatedAt = time.Time{}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertOutfit(ctx, tx, o); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing outfit: %w", err)
	}

	return GetOutfit(ctx, db, o.ID)
}

func insertOutfit(ctx context.Context, tx execer, o model.Outfit) error {
	createdAt := o.CreatedAt.UTC()
	if o.CreatedAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	var occasion any
	if o.Occasion != "" {
		occasion = o.Occasion
	}

	_, err := tx.ExecContext(ctx,
		`INSERT INTO outfits (id, name, occasion, times_worn, last_worn, scheduled_date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		o.ID, o.Name, occasion, o.TimesWorn, dateArg(o.LastWorn), dateArg(o.ScheduledDate), createdAt,
	)
	if err != nil {
		return fmt.Errorf("creating outfit: %w", err)
	}

	for i, it := range o.Items {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO outfit_items (outfit_id, position, item_id, name, type, color, category,
			                           image_url, times_worn, last_worn)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			o.ID, i, it.ID, it.Name, string(it.Type), it.Color, string(it.Category),
			it.ImageURL, it.TimesWorn, dateArg(it.LastWorn),
		)
		if err != nil {
			return fmt.Errorf("adding item %s to outfit: %w", it.ID, err)
		}
	}
	return nil
}

// GetOutfit returns an outfit with its item snapshots, or nil if it does
// not exist.
func GetOutfit(ctx context.Context, db *sql.DB, id string) (*model.Outfit, error) {
	row := db.QueryRowContext(ctx, `SELECT `+outfitColumns+` FROM outfits WHERE id = ?`, id)
	o, err := scanOutfit(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting outfit: %w", err)
	}

	items, err := listOutfitItems(ctx, db, id)
	if err != nil {
		return nil, err
	}
	o.Items = items[id]
	if o.Items == nil {
		o.Items = []model.Item{}
	}
	return &o, nil
}

// ListOutfits returns outfits in the order they were saved. When
// scheduledOn is set only outfits planned for that day are returned.
func ListOutfits(ctx context.Context, db *sql.DB, scheduledOn *model.Date) ([]model.Outfit, error) {
	query := `SELECT ` + outfitColumns + ` FROM outfits`
	var args []any
	if scheduledOn != nil {
		query += ` WHERE scheduled_date = ?`
		args = append(args, scheduledOn.String())
	}
	query += ` ORDER BY created_at, rowid`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing outfits: %w", err)
	}

	var outfits []model.Outfit
	for rows.Next() {
		o, err := scanOutfit(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning outfit: %w", err)
		}
		outfits = append(outfits, o)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("listing outfits: %w", err)
	}
	// Release the connection before loading items.
	rows.Close()

	if len(outfits) == 0 {
		return outfits, nil
	}

	items, err := listOutfitItems(ctx, db, "")
	if err != nil {
		return nil, err
	}
	for i := range outfits {
		outfits[i].Items = items[outfits[i].ID]
		if outfits[i].Items == nil {
			outfits[i].Items = []model.Item{}
		}
	}
	return outfits, nil
}

// listOutfitItems loads item snapshots grouped by outfit ID. An empty
// outfitID loads snapshots for every outfit.
func listOutfitItems(ctx context.Context, db *sql.DB, outfitID string) (map[string][]model.Item, error) {
	query := `SELECT outfit_id, item_id, name, type, color, category, image_url, times_worn, last_worn
	          FROM outfit_items`
	var args []any
	if outfitID != "" {
		query += ` WHERE outfit_id = ?`
		args = append(args, outfitID)
	}
	query += ` ORDER BY outfit_id, position`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing outfit items: %w", err)
	}
	defer rows.Close()

	byOutfit := make(map[string][]model.Item)
	for rows.Next() {
		var oid string
		var it model.Item
		var lastWorn sql.NullString
		if err := rows.Scan(&oid, &it.ID, &it.Name, &it.Type, &it.Color, &it.Category,
			&it.ImageURL, &it.TimesWorn, &lastWorn); err != nil {
			return nil, fmt.Errorf("scanning outfit item: %w", err)
		}
		if it.LastWorn, err = parseDate(lastWorn); err != nil {
			return nil, fmt.Errorf("scanning outfit item: %w", err)
		}
		byOutfit[oid] = append(byOutfit[oid], it)
	}
	return byOutfit, rows.Err()
}

// DeleteOutfit removes an outfit. Wardrobe items are not affected.
func DeleteOutfit(ctx context.Context, db *sql.DB, id string) error {
	result, err := db.ExecContext(ctx, `DELETE FROM outfits WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting outfit: %w", err)
	}
	return requireAffected(result, "deleting outfit")
}

// MarkOutfitWorn records one wear of an outfit on day, and one wear of
// every wardrobe item it contains.
func MarkOutfitWorn(ctx context.Context, db *sql.DB, id string, day model.Date) (*model.Outfit, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE outfits SET times_worn = times_worn + 1, last_worn = ? WHERE id = ?`,
		day.String(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("marking outfit worn: %w", err)
	}
	if err := requireAffected(result, "marking outfit worn"); err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE items SET times_worn = times_worn + 1, last_worn = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id IN (SELECT item_id FROM outfit_items WHERE outfit_id = ?)`,
		day.String(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("marking outfit items worn: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing outfit wear: %w", err)
	}

	return GetOutfit(ctx, db, id)
}
