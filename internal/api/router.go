package api

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/erazemk/omara/internal/analytics"
	"github.com/erazemk/omara/internal/model"
	"github.com/erazemk/omara/internal/outfit"
)

// ReportCache stores computed analytics reports. *cache.Reports implements it.
// Get reports the cache generation it looked in; Set stores into that
// generation, which Invalidate retires.
type ReportCache interface {
	Get(ctx context.Context, ref model.Date, n int) (*analytics.Report, int64, error)
	Set(ctx context.Context, gen int64, ref model.Date, n int, report analytics.Report) error
	Invalidate(ctx context.Context) error
}

// Options tune the router. Zero values select the defaults.
type Options struct {
	// TokenTTL is the lifetime of issued tokens.
	TokenTTL time.Duration
	// Reports caches analytics summaries; nil disables caching.
	Reports ReportCache
	// Rand drives outfit generation.
	Rand outfit.Rand
	// Now supplies the current time for wear dates and report defaults.
	Now func() time.Time
}

func (o Options) now() model.Date {
	if o.Now == nil {
		return model.DateOf(time.Now())
	}
	return model.DateOf(o.Now())
}

// invalidate drops cached reports after a wardrobe change. Failures are
// logged only; a stale report expires with the cache TTL.
func (o Options) invalidate(ctx context.Context) {
	if o.Reports == nil {
		return
	}
	if err := o.Reports.Invalidate(ctx); err != nil {
		slog.Warn("failed to invalidate analytics cache", "error", err)
	}
}

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, jwtSecret string, opts Options) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret, TokenTTL: opts.TokenTTL}
	itemsHandler := &ItemsHandler{DB: db, Options: opts}
	outfitsHandler := &OutfitsHandler{DB: db, Options: opts}
	analyticsHandler := &AnalyticsHandler{DB: db, Options: opts}
	backupHandler := &BackupHandler{DB: db, Options: opts}
	healthHandler := &HealthHandler{DB: db}

	authMW := AuthMiddleware(jwtSecret, db)
	protected := func(h http.HandlerFunc) http.Handler { return authMW(h) }

	// Public.
	mux.HandleFunc("GET /healthz", healthHandler.Check)
	mux.HandleFunc("POST /api/v1/auth/login", authHandler.Login)

	// Session.
	mux.Handle("POST /api/v1/auth/logout", protected(authHandler.Logout))
	mux.Handle("PUT /api/v1/auth/password", protected(authHandler.ChangePassword))

	// Wardrobe items.
	mux.Handle("GET /api/v1/items", protected(itemsHandler.List))
	mux.Handle("POST /api/v1/items", protected(itemsHandler.Create))
	mux.Handle("GET /api/v1/items/{id}", protected(itemsHandler.Get))
	mux.Handle("PUT /api/v1/items/{id}", protected(itemsHandler.Update))
	mux.Handle("DELETE /api/v1/items/{id}", protected(itemsHandler.Delete))
	mux.Handle("POST /api/v1/items/{id}/wear", protected(itemsHandler.Wear))
	mux.Handle("PUT /api/v1/items/{id}/image", protected(itemsHandler.UploadImage))
	mux.Handle("GET /api/v1/items/{id}/image", protected(itemsHandler.GetImage))

	// Outfits.
	mux.Handle("GET /api/v1/outfits", protected(outfitsHandler.List))
	mux.Handle("POST /api/v1/outfits", protected(outfitsHandler.Create))
	mux.Handle("POST /api/v1/outfits/generate", protected(outfitsHandler.Generate))
	mux.Handle("GET /api/v1/outfits/{id}", protected(outfitsHandler.Get))
	mux.Handle("DELETE /api/v1/outfits/{id}", protected(outfitsHandler.Delete))
	mux.Handle("POST /api/v1/outfits/{id}/wear", protected(outfitsHandler.Wear))

	// Analytics.
	mux.Handle("GET /api/v1/analytics/summary", protected(analyticsHandler.Summary))

	// Backup.
	mux.Handle("GET /api/v1/export", protected(backupHandler.Export))
	mux.Handle("POST /api/v1/import", protected(backupHandler.Import))

	return mux
}
