package api

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/erazemk/omara/internal/model"
	"github.com/erazemk/omara/internal/store"
)

// MaxImportBytes bounds the size of an imported wardrobe document.
const MaxImportBytes = 10 << 20

// BackupHandler exports and imports the whole wardrobe as one JSON
// document in the {"clothes": [...], "outfits": [...]} shape.
type BackupHandler struct {
	DB *sql.DB
	Options
}

// Export handles GET /api/v1/export.
func (h *BackupHandler) Export(w http.ResponseWriter, r *http.Request) {
	wardrobe, err := store.LoadWardrobe(r.Context(), h.DB)
	if err != nil {
		slog.Error("loading wardrobe", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to export wardrobe")
		return
	}

	filename := fmt.Sprintf("omara-%s.json", h.now())
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	jsonResponse(w, http.StatusOK, wardrobe)
}

// Import handles POST /api/v1/import. Records with existing IDs are
// replaced; the import is all-or-nothing.
func (h *BackupHandler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxImportBytes)

	var wardrobe model.Wardrobe
	if err := decodeJSON(r, &wardrobe); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid wardrobe document")
		return
	}

	if err := checkWardrobe(wardrobe); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := store.ImportWardrobe(r.Context(), h.DB, wardrobe)
	if err != nil {
		slog.Error("importing wardrobe", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to import wardrobe")
		return
	}
	h.invalidate(r.Context())

	slog.Info("wardrobe imported", "items", result.Items, "outfits", result.Outfits)
	jsonResponse(w, http.StatusOK, result)
}

// checkWardrobe rejects records the schema would refuse, naming the first.
func checkWardrobe(wd model.Wardrobe) error {
	for i, it := range wd.Clothes {
		if err := checkItem(it); err != nil {
			return fmt.Errorf("clothes[%d]: %w", i, err)
		}
	}
	for i, o := range wd.Outfits {
		if o.Name == "" {
			return fmt.Errorf("outfits[%d]: name required", i)
		}
		if o.TimesWorn < 0 {
			return fmt.Errorf("outfits[%d]: timesWorn must not be negative", i)
		}
		for j, it := range o.Items {
			if err := checkItem(it); err != nil {
				return fmt.Errorf("outfits[%d].items[%d]: %w", i, j, err)
			}
		}
	}
	return nil
}

func checkItem(it model.Item) error {
	switch {
	case it.Name == "":
		return fmt.Errorf("name required")
	case !it.Type.Valid():
		return fmt.Errorf("invalid type %q", it.Type)
	case !it.Category.Valid():
		return fmt.Errorf("invalid category %q", it.Category)
	case it.TimesWorn < 0:
		return fmt.Errorf("timesWorn must not be negative")
	}
	return nil
}
