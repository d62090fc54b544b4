package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/erazemk/omara/internal/model"
)

// ErrNotFound is returned when a mutation targets a row that does not exist.
var ErrNotFound = errors.New("not found")

const itemColumns = `id, name, type, color, category, image_url, times_worn, last_worn`

// ItemFilter narrows ListItems. Empty fields match everything.
type ItemFilter struct {
	// Query matches name or colour, case-insensitively.
	Query    string
	Type     model.Type
	Category model.Category
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (model.Item, error) {
	var item model.Item
	var lastWorn sql.NullString
	if err := row.Scan(&item.ID, &item.Name, &item.Type, &item.Color, &item.Category,
		&item.ImageURL, &item.TimesWorn, &lastWorn); err != nil {
		return item, err
	}
	d, err := parseDate(lastWorn)
	if err != nil {
		return item, err
	}
	item.LastWorn = d
	return item, nil
}

// CreateItem adds an item to the wardrobe. A new ID is assigned when the item
// has none; wear counters always start at zero.
func CreateItem(ctx context.Context, db *sql.DB, item model.Item) (*model.Item, error) {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}

	_, err := db.ExecContext(ctx,
		`INSERT INTO items (id, name, type, color, category, image_url) VALUES (?, ?, ?, ?, ?, ?)`,
		item.ID, item.Name, string(item.Type), item.Color, string(item.Category), item.ImageURL,
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	return GetItem(ctx, db, item.ID)
}

// GetItem returns an item by ID, or nil if it does not exist.
func GetItem(ctx context.Context, db *sql.DB, id string) (*model.Item, error) {
	row := db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM items WHERE id = ?`, id)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return &item, nil
}

// GetItems returns the items with the given IDs in the order requested.
// Unknown IDs are reported as an error naming the first missing one.
func GetItems(ctx context.Context, db *sql.DB, ids []string) ([]model.Item, error) {
	items := make([]model.Item, 0, len(ids))
	for _, id := range ids {
		item, err := GetItem(ctx, db, id)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, fmt.Errorf("item %s: %w", id, ErrNotFound)
		}
		items = append(items, *item)
	}
	return items, nil
}

// likeEscaper makes LIKE wildcards in a search term match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ListItems returns items in the order they were added.
func ListItems(ctx context.Context, db *sql.DB, f ItemFilter) ([]model.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE 1=1`
	var args []any

	if q := strings.TrimSpace(f.Query); q != "" {
		like := "%" + likeEscaper.Replace(strings.ToLower(q)) + "%"
		query += ` AND (LOWER(name) LIKE ? ESCAPE '\' OR LOWER(color) LIKE ? ESCAPE '\')`
		args = append(args, like, like)
	}
	if f.Type != "" {
		query += ` AND type = ?`
		args = append(args, string(f.Type))
	}
	if f.Category != "" {
		query += ` AND category = ?`
		args = append(args, string(f.Category))
	}

	query += ` ORDER BY created_at, rowid`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// UpdateItem updates an item's descriptive fields. Wear counters are only
// changed through MarkItemWorn and MarkOutfitWorn.
func UpdateItem(ctx context.Context, db *sql.DB, item model.Item) error {
	result, err := db.ExecContext(ctx,
		`UPDATE items SET name = ?, type = ?, color = ?, category = ?, image_url = ?,
		        updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		item.Name, string(item.Type), item.Color, string(item.Category), item.ImageURL, item.ID,
	)
	if err != nil {
		return fmt.Errorf("updating item: %w", err)
	}
	return requireAffected(result, "updating item")
}

// DeleteItem removes an item and drops it from every saved outfit.
func DeleteItem(ctx context.Context, db *sql.DB, id string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM outfit_items WHERE item_id = ?`, id); err != nil {
		return fmt.Errorf("removing item from outfits: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	if err := requireAffected(result, "deleting item"); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing item delete: %w", err)
	}
	return nil
}

// MarkItemWorn records one wear of an item on day.
func MarkItemWorn(ctx context.Context, db *sql.DB, id string, day model.Date) (*model.Item, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE items SET times_worn = times_worn + 1, last_worn = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		day.String(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("marking item worn: %w", err)
	}
	if err := requireAffected(result, "marking item worn"); err != nil {
		return nil, err
	}
	return GetItem(ctx, db, id)
}

// SetItemImage stores a processed photo for an item and points its image
// URL at url.
func SetItemImage(ctx context.Context, db *sql.DB, id string, image []byte, mime, url string) error {
	result, err := db.ExecContext(ctx,
		`UPDATE items SET image = ?, image_mime = ?, image_url = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		image, mime, url, id,
	)
	if err != nil {
		return fmt.Errorf("setting item image: %w", err)
	}
	return requireAffected(result, "setting item image")
}

// GetItemImage returns an item's stored photo and MIME type. Data is nil
// when the item has no stored photo.
func GetItemImage(ctx context.Context, db *sql.DB, id string) ([]byte, string, error) {
	var image []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT image, image_mime FROM items WHERE id = ?`, id,
	).Scan(&image, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting item image: %w", err)
	}
	return image, mime.String, nil
}

func requireAffected(result sql.Result, op string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

func parseDate(ns sql.NullString) (*model.Date, error) {
	if !ns.Valid || ns.String == "" {
		return nil, nil
	}
	d, err := model.ParseDate(ns.String)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func dateArg(d *model.Date) any {
	if d == nil {
		return nil
	}
	return d.String()
}
