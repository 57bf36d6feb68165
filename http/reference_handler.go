package httpapi

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/yourorg/landmark-api/lpc"
)

func RegisterReference(r chi.Router, d LandmarksDeps) {
	r.Get("/reference/{kind}", func(w http.ResponseWriter, req *http.Request) {
		kind := chi.URLParam(req, "kind")
		items, err := d.Registry.Reference(req.Context(), kind)
		if errors.Is(err, lpc.ErrUnknownReference) {
			writeError(w, req, http.StatusNotFound, "unknown_reference", "kind must be borough, objectType or neighborhood")
			return
		}
		if err != nil {
			writeUpstreamError(w, req, err)
			return
		}
		render.JSON(w, req, map[string]any{"kind": kind, "items": items})
	})
}
