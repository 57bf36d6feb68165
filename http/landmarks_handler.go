package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/yourorg/landmark-api/lpc"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Registry is the read side of *lpc.Service served over HTTP.
type Registry interface {
	ListLandmarks(ctx context.Context, f lpc.Filters, page, limit int) (lpc.Listing, error)
	TotalCount(ctx context.Context) int
	GetBuildings(ctx context.Context, lpNumber string, limit int) ([]lpc.Landmark, error)
	Photos(ctx context.Context, lpNumber string, limit int) ([]lpc.Photo, error)
	LandUse(ctx context.Context, id string) ([]lpc.LandUse, error)
	Reference(ctx context.Context, kind string) ([]lpc.ReferenceItem, error)
}

type LandmarksDeps struct {
	Registry Registry
}

func RegisterLandmarks(r chi.Router, d LandmarksDeps) {
	r.Get("/landmarks", func(w http.ResponseWriter, req *http.Request) {
		page, ok := queryInt(req, "page", 1)
		if !ok || page < 1 {
			writeError(w, req, http.StatusBadRequest, "invalid_page", "page must be a positive integer")
			return
		}
		limit, ok := queryInt(req, "limit", defaultPageSize)
		if !ok || limit < 1 || limit > maxPageSize {
			writeError(w, req, http.StatusBadRequest, "invalid_limit", "limit must be between 1 and 100")
			return
		}
		q := req.URL.Query()
		f := lpc.Filters{
			Borough:         q.Get("borough"),
			ObjectType:      q.Get("objectType"),
			Neighborhood:    q.Get("neighborhood"),
			SearchText:      q.Get("q"),
			ParentStyleList: q.Get("style"),
			SortColumn:      q.Get("sort"),
			SortOrder:       q.Get("order"),
		}
		listing, err := d.Registry.ListLandmarks(req.Context(), f, page, limit)
		if err != nil {
			writeUpstreamError(w, req, err)
			return
		}
		render.JSON(w, req, listing)
	})

	r.Get("/landmarks/count", func(w http.ResponseWriter, req *http.Request) {
		render.JSON(w, req, map[string]any{"total": d.Registry.TotalCount(req.Context())})
	})

	r.Get("/landmarks/{id}/buildings", func(w http.ResponseWriter, req *http.Request) {
		lp, ok := lpNumber(chi.URLParam(req, "id"))
		if !ok {
			writeError(w, req, http.StatusBadRequest, "id_required", "")
			return
		}
		limit, ok := queryInt(req, "limit", lpc.DefaultBuildingsLimit)
		if !ok || limit < 1 {
			writeError(w, req, http.StatusBadRequest, "invalid_limit", "limit must be a positive integer")
			return
		}
		buildings, err := d.Registry.GetBuildings(req.Context(), lp, limit)
		if err != nil {
			writeUpstreamError(w, req, err)
			return
		}
		render.JSON(w, req, map[string]any{"lpNumber": lp, "buildings": buildings})
	})

	r.Get("/landmarks/{id}/photos", func(w http.ResponseWriter, req *http.Request) {
		lp, ok := lpNumber(chi.URLParam(req, "id"))
		if !ok {
			writeError(w, req, http.StatusBadRequest, "id_required", "")
			return
		}
		limit, ok := queryInt(req, "limit", lpc.DefaultPhotosLimit)
		if !ok || limit < 1 {
			writeError(w, req, http.StatusBadRequest, "invalid_limit", "limit must be a positive integer")
			return
		}
		photos, err := d.Registry.Photos(req.Context(), lp, limit)
		if err != nil {
			writeUpstreamError(w, req, err)
			return
		}
		render.JSON(w, req, map[string]any{"lpNumber": lp, "photos": photos})
	})

	r.Get("/landmarks/{id}/landuse", func(w http.ResponseWriter, req *http.Request) {
		lp, ok := lpNumber(chi.URLParam(req, "id"))
		if !ok {
			writeError(w, req, http.StatusBadRequest, "id_required", "")
			return
		}
		records, err := d.Registry.LandUse(req.Context(), lp)
		if err != nil {
			writeUpstreamError(w, req, err)
			return
		}
		render.JSON(w, req, map[string]any{"lpNumber": lp, "landUse": records})
	})
}
