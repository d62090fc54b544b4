package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS items (
    id          TEXT PRIMARY KEY,
    name        TEXT NOT NULL,
    type        TEXT NOT NULL CHECK (type IN ('tops', 'bottoms', 'outerwear', 'shoes', 'accessories')),
    color       TEXT NOT NULL,
    category    TEXT NOT NULL CHECK (category IN ('casual', 'sports', 'formal', 'loungewear')),
    image_url   TEXT NOT NULL DEFAULT '',
    image       BLOB,
    image_mime  TEXT,
    times_worn  INTEGER NOT NULL DEFAULT 0 CHECK (times_worn >= 0),
    last_worn   TEXT,
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS outfits (
    id             TEXT PRIMARY KEY,
    name           TEXT NOT NULL,
    occasion       TEXT,
    times_worn     INTEGER NOT NULL DEFAULT 0 CHECK (times_worn >= 0),
    last_worn      TEXT,
    scheduled_date TEXT,
    created_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_outfits_scheduled_date
    ON outfits(scheduled_date) WHERE scheduled_date IS NOT NULL;

-- Item columns snapshot the item as it was when the outfit was saved.
CREATE TABLE IF NOT EXISTS outfit_items (
    outfit_id  TEXT NOT NULL REFERENCES outfits(id) ON DELETE CASCADE,
    position   INTEGER NOT NULL,
    item_id    TEXT NOT NULL,
    name       TEXT NOT NULL,
    type       TEXT NOT NULL,
    color      TEXT NOT NULL,
    category   TEXT NOT NULL,
    image_url  TEXT NOT NULL DEFAULT '',
    times_worn INTEGER NOT NULL DEFAULT 0,
    last_worn  TEXT,
    PRIMARY KEY (outfit_id, position)
);

CREATE INDEX IF NOT EXISTS idx_outfit_items_item ON outfit_items(item_id);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
