package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/yourorg/landmark-api/internal/refresh"
)

type Enqueuer interface {
	Enqueue(j refresh.Job) bool
}

type ArticleReader interface {
	FetchArticles(ctx context.Context, lpNumber string) ([]string, error)
}

// StoreDeps backs the endpoints that need the collector's database. Either
// field may be nil, in which case its endpoint answers 503.
type StoreDeps struct {
	Refresher Enqueuer
	Articles  ArticleReader
}

func RegisterStore(r chi.Router, d StoreDeps) {
	r.Post("/landmarks/{id}/refresh", func(w http.ResponseWriter, req *http.Request) {
		if d.Refresher == nil {
			writeError(w, req, http.StatusServiceUnavailable, "refresh_disabled", "no store configured")
			return
		}
		lp, ok := lpNumber(chi.URLParam(req, "id"))
		if !ok {
			writeError(w, req, http.StatusBadRequest, "id_required", "")
			return
		}
		queued := d.Refresher.Enqueue(refresh.Job{LPNumber: lp})
		render.Status(req, http.StatusAccepted)
		render.JSON(w, req, map[string]any{"lpNumber": lp, "queued": queued})
	})

	r.Get("/landmarks/{id}/articles", func(w http.ResponseWriter, req *http.Request) {
		if d.Articles == nil {
			writeError(w, req, http.StatusServiceUnavailable, "articles_disabled", "no store configured")
			return
		}
		lp, ok := lpNumber(chi.URLParam(req, "id"))
		if !ok {
			writeError(w, req, http.StatusBadRequest, "id_required", "")
			return
		}
		urls, err := d.Articles.FetchArticles(req.Context(), lp)
		if err != nil {
			writeError(w, req, http.StatusInternalServerError, "store_error", err.Error())
			return
		}
		render.JSON(w, req, map[string]any{"lpNumber": lp, "articles": urls})
	})
}
