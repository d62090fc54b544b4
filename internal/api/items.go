package api

import (
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/erazemk/omara/internal/imaging"
	"github.com/erazemk/omara/internal/model"
	"github.com/erazemk/omara/internal/store"
)

// ItemsHandler handles wardrobe item endpoints.
type ItemsHandler struct {
	DB *sql.DB
	Options
}

type itemRequest struct {
	Name     string         `json:"name" validate:"required,max=200"`
	Type     model.Type     `json:"type" validate:"required,oneof=tops bottoms outerwear shoes accessories"`
	Color    string         `json:"color" validate:"required,max=50"`
	Category model.Category `json:"category" validate:"required,oneof=casual sports formal loungewear"`
	ImageURL string         `json:"imageUrl" validate:"omitempty,max=7340032"`
}

// MaxItemBodyBytes bounds item create and update bodies. imageUrl may carry
// a base64 data URL of a photo up to imaging.MaxUploadBytes.
const MaxItemBodyBytes = 8 << 20

func (req itemRequest) item() model.Item {
	return model.Item{
		Name:     req.Name,
		Type:     req.Type,
		Color:    req.Color,
		Category: req.Category,
		ImageURL: req.ImageURL,
	}
}

type wearRequest struct {
	Date string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

// wearDay reads an optional {"date": "YYYY-MM-DD"} body, defaulting to
// today. It writes the 400 response itself on bad input.
func wearDay(w http.ResponseWriter, r *http.Request, opts Options) (model.Date, bool) {
	var req wearRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return model.Date{}, false
	}
	if err := validate.Struct(&req); err != nil {
		jsonError(w, http.StatusBadRequest, validationMessage(err))
		return model.Date{}, false
	}
	if req.Date == "" {
		return opts.now(), true
	}

	day, err := model.ParseDate(req.Date)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "date must be a date (YYYY-MM-DD)")
		return model.Date{}, false
	}
	return day, true
}

// List handles GET /api/v1/items.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.ItemFilter{
		Query:    q.Get("q"),
		Type:     model.Type(q.Get("type")),
		Category: model.Category(q.Get("category")),
	}

	if filter.Type != "" && !filter.Type.Valid() {
		jsonError(w, http.StatusBadRequest, "invalid type")
		return
	}
	if filter.Category != "" && !filter.Category.Valid() {
		jsonError(w, http.StatusBadRequest, "invalid category")
		return
	}

	items, err := store.ListItems(r.Context(), h.DB, filter)
	if err != nil {
		slog.Error("listing items", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list items")
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Create handles POST /api/v1/items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxItemBodyBytes)

	var req itemRequest
	if !decodeValid(w, r, &req) {
		return
	}

	item, err := store.CreateItem(r.Context(), h.DB, req.item())
	if err != nil {
		slog.Error("creating item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to create item")
		return
	}
	h.invalidate(r.Context())

	slog.Info("item created", "id", item.ID, "name", item.Name, "type", item.Type)
	jsonResponse(w, http.StatusCreated, item)
}

// Get handles GET /api/v1/items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := store.GetItem(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		slog.Error("getting item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Update handles PUT /api/v1/items/{id}. An omitted imageUrl keeps the
// current one.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	r.Body = http.MaxBytesReader(w, r.Body, MaxItemBodyBytes)

	var req itemRequest
	if !decodeValid(w, r, &req) {
		return
	}

	existing, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("getting item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to update item")
		return
	}
	if existing == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	item := req.item()
	item.ID = id
	if item.ImageURL == "" {
		item.ImageURL = existing.ImageURL
	}

	if err := store.UpdateItem(r.Context(), h.DB, item); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			jsonError(w, http.StatusNotFound, "item not found")
			return
		}
		slog.Error("updating item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to update item")
		return
	}
	h.invalidate(r.Context())

	updated, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil || updated == nil {
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}

	slog.Info("item updated", "id", id)
	jsonResponse(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/v1/items/{id}. The item is also removed from
// every saved outfit.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := store.DeleteItem(r.Context(), h.DB, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			jsonError(w, http.StatusNotFound, "item not found")
			return
		}
		slog.Error("deleting item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to delete item")
		return
	}
	h.invalidate(r.Context())

	slog.Info("item deleted", "id", id)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "item deleted"})
}

// Wear handles POST /api/v1/items/{id}/wear.
func (h *ItemsHandler) Wear(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	day, ok := wearDay(w, r, h.Options)
	if !ok {
		return
	}

	item, err := store.MarkItemWorn(r.Context(), h.DB, id, day)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			jsonError(w, http.StatusNotFound, "item not found")
			return
		}
		slog.Error("marking item worn", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to mark item worn")
		return
	}
	h.invalidate(r.Context())

	slog.Info("item worn", "id", id, "date", day.String(), "times_worn", item.TimesWorn)
	jsonResponse(w, http.StatusOK, item)
}

// UploadImage handles PUT /api/v1/items/{id}/image.
func (h *ItemsHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	// Room for the multipart envelope around a maximum-size photo.
	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxUploadBytes+64<<10)

	if err := r.ParseMultipartForm(imaging.MaxUploadBytes); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "image file required")
		return
	}
	defer file.Close()

	photo, err := imaging.Process(file)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	url := "/api/v1/items/" + id + "/image"
	if err := store.SetItemImage(r.Context(), h.DB, id, photo.Data, photo.MIME, url); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			jsonError(w, http.StatusNotFound, "item not found")
			return
		}
		slog.Error("saving item image", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to save image")
		return
	}
	h.invalidate(r.Context())

	slog.Info("item image uploaded", "id", id, "bytes", len(photo.Data), "width", photo.Width, "height", photo.Height)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "image uploaded", "imageUrl": url})
}

// GetImage handles GET /api/v1/items/{id}/image.
func (h *ItemsHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	data, mime, err := store.GetItemImage(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		slog.Error("getting item image", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get image")
		return
	}
	if data == nil {
		jsonError(w, http.StatusNotFound, "no image")
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.Write(data)
}
