package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/erazemk/omara/internal/analytics"
	"github.com/erazemk/omara/internal/store"
)

// AnalyticsHandler serves wear and resale analytics.
type AnalyticsHandler struct {
	DB *sql.DB
	Options
}

// Summary handles GET /api/v1/analytics/summary. ?date= sets the reference
// day for resale staleness (default today) and ?limit= bounds the ranked
// lists (default 5).
func (h *AnalyticsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	ref := h.now()
	day, err := queryDate(r, "date")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "date must be a date (YYYY-MM-DD)")
		return
	}
	if day != nil {
		ref = *day
	}

	n := analytics.DefaultLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err = strconv.Atoi(v)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		if n <= 0 {
			n = analytics.DefaultLimit
		}
	}

	ctx := r.Context()
	cacheable := false
	var gen int64
	if h.Reports != nil {
		cached, g, err := h.Reports.Get(ctx, ref, n)
		switch {
		case err != nil:
			slog.Warn("reading analytics cache", "error", err)
		case cached != nil:
			w.Header().Set("X-Cache", "hit")
			jsonResponse(w, http.StatusOK, cached)
			return
		default:
			cacheable, gen = true, g
		}
	}

	wardrobe, err := store.LoadWardrobe(ctx, h.DB)
	if err != nil {
		slog.Error("loading wardrobe", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to compute analytics")
		return
	}

	report := analytics.Build(wardrobe.Clothes, wardrobe.Outfits, ref, n)

	if cacheable {
		if err := h.Reports.Set(ctx, gen, ref, n, report); err != nil {
			slog.Warn("writing analytics cache", "error", err)
		}
		w.Header().Set("X-Cache", "miss")
	}
	jsonResponse(w, http.StatusOK, report)
}
