package v1

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/yourorg/landmark-api/internal/canon"
	"github.com/yourorg/landmark-api/lpc"
)

type Resolver interface {
	ResolveLandmark(ctx context.Context, raw string) (*lpc.LandmarkDetail, bool, error)
}

type ResolveDeps struct {
	Resolver Resolver
}

type ResolveRequest struct {
	ID string `json:"id"`
}

type resolveResponse struct {
	Data       *lpc.LandmarkDetail `json:"data"`
	Candidates []string            `json:"candidates"`
}

func RegisterResolve(r chi.Router, d ResolveDeps) {
	r.Route("/v1/landmarks", func(r chi.Router) {
		r.Post("/resolve", func(w http.ResponseWriter, req *http.Request) {
			var body ResolveRequest
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				writeError(w, req, http.StatusBadRequest, "invalid_json", err.Error())
				return
			}
			resolve(w, req, d, body)
		})
		r.Get("/resolve", func(w http.ResponseWriter, req *http.Request) {
			resolve(w, req, d, ResolveRequest{ID: req.URL.Query().Get("id")})
		})
	})
}

func resolve(w http.ResponseWriter, req *http.Request, d ResolveDeps, body ResolveRequest) {
	id := strings.TrimSpace(body.ID)
	if id == "" {
		writeError(w, req, http.StatusBadRequest, "id_required", "id is required")
		return
	}
	detail, found, err := d.Resolver.ResolveLandmark(req.Context(), id)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			writeError(w, req, http.StatusGatewayTimeout, "upstream_timeout", err.Error())
			return
		}
		writeError(w, req, http.StatusBadGateway, "upstream_error", err.Error())
		return
	}
	candidates := canon.StandardizeLPNumber(id)
	if !found {
		render.Status(req, http.StatusNotFound)
		render.JSON(w, req, map[string]any{"error": "not_found", "candidates": candidates})
		return
	}
	render.JSON(w, req, resolveResponse{Data: detail, Candidates: candidates})
}

func writeError(w http.ResponseWriter, req *http.Request, status int, code, detail string) {
	render.Status(req, status)
	render.JSON(w, req, map[string]any{"error": code, "detail": detail})
}
