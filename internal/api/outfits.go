package api

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/erazemk/omara/internal/model"
	"github.com/erazemk/omara/internal/outfit"
	"github.com/erazemk/omara/internal/store"
)

// OutfitsHandler handles saved outfit and outfit generation endpoints.
type OutfitsHandler struct {
	DB *sql.DB
	Options
}

type createOutfitRequest struct {
	Name          string   `json:"name" validate:"max=200"`
	Occasion      string   `json:"occasion" validate:"max=100"`
	ItemIDs       []string `json:"itemIds" validate:"required,min=1,dive,required"`
	ScheduledDate string   `json:"scheduledDate" validate:"omitempty,datetime=2006-01-02"`
}

type generateResponse struct {
	Items []model.Item `json:"items"`
	Name  string       `json:"name"`
}

// queryDate parses an optional YYYY-MM-DD query parameter.
func queryDate(r *http.Request, key string) (*model.Date, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil, nil
	}
	d, err := model.ParseDate(v)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// List handles GET /api/v1/outfits. ?date=YYYY-MM-DD limits the result to
// outfits scheduled on that day.
func (h *OutfitsHandler) List(w http.ResponseWriter, r *http.Request) {
	day, err := queryDate(r, "date")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "date must be a date (YYYY-MM-DD)")
		return
	}

	outfits, err := store.ListOutfits(r.Context(), h.DB, day)
	if err != nil {
		slog.Error("listing outfits", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list outfits")
		return
	}
	if outfits == nil {
		outfits = []model.Outfit{}
	}
	jsonResponse(w, http.StatusOK, outfits)
}

// Create handles POST /api/v1/outfits. Items are copied from the wardrobe
// as they are now; an empty name is derived from the items and date.
func (h *OutfitsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createOutfitRequest
	if !decodeValid(w, r, &req) {
		return
	}

	var scheduled *model.Date
	if req.ScheduledDate != "" {
		d, err := model.ParseDate(req.ScheduledDate)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "scheduledDate must be a date (YYYY-MM-DD)")
			return
		}
		scheduled = &d
	}

	items, err := store.GetItems(r.Context(), h.DB, req.ItemIDs)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			jsonError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("loading outfit items", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to create outfit")
		return
	}

	name := req.Name
	if name == "" {
		name = outfit.Name(items, scheduled)
	}

	created, err := store.CreateOutfit(r.Context(), h.DB, model.Outfit{
		Name:          name,
		Occasion:      req.Occasion,
		Items:         items,
		ScheduledDate: scheduled,
	})
	if err != nil {
		slog.Error("creating outfit", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to create outfit")
		return
	}
	h.invalidate(r.Context())

	slog.Info("outfit created", "id", created.ID, "name", created.Name, "items", len(created.Items))
	jsonResponse(w, http.StatusCreated, created)
}

// Get handles GET /api/v1/outfits/{id}.
func (h *OutfitsHandler) Get(w http.ResponseWriter, r *http.Request) {
	o, err := store.GetOutfit(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		slog.Error("getting outfit", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get outfit")
		return
	}
	if o == nil {
		jsonError(w, http.StatusNotFound, "outfit not found")
		return
	}
	jsonResponse(w, http.StatusOK, o)
}

// Delete handles DELETE /api/v1/outfits/{id}.
func (h *OutfitsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := store.DeleteOutfit(r.Context(), h.DB, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			jsonError(w, http.StatusNotFound, "outfit not found")
			return
		}
		slog.Error("deleting outfit", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to delete outfit")
		return
	}
	h.invalidate(r.Context())

	slog.Info("outfit deleted", "id", id)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "outfit deleted"})
}

// Wear handles POST /api/v1/outfits/{id}/wear. Every wardrobe item in the
// outfit is marked worn too.
func (h *OutfitsHandler) Wear(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	day, ok := wearDay(w, r, h.Options)
	if !ok {
		return
	}

	o, err := store.MarkOutfitWorn(r.Context(), h.DB, id, day)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			jsonError(w, http.StatusNotFound, "outfit not found")
			return
		}
		slog.Error("marking outfit worn", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to mark outfit worn")
		return
	}
	h.invalidate(r.Context())

	slog.Info("outfit worn", "id", id, "date", day.String(), "times_worn", o.TimesWorn, "items", o.ItemIDs())
	jsonResponse(w, http.StatusOK, o)
}

// Generate handles POST /api/v1/outfits/generate. The suggestion is not
// saved. ?date=YYYY-MM-DD names it for that day.
func (h *OutfitsHandler) Generate(w http.ResponseWriter, r *http.Request) {
	scheduled, err := queryDate(r, "date")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "date must be a date (YYYY-MM-DD)")
		return
	}

	items, err := store.ListItems(r.Context(), h.DB, store.ItemFilter{})
	if err != nil {
		slog.Error("listing items", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to generate outfit")
		return
	}

	picked := outfit.Generate(items, h.Rand)
	jsonResponse(w, http.StatusOK, generateResponse{
		Items: picked,
		Name:  outfit.Name(picked, scheduled),
	})
}
