package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/render"

	"github.com/yourorg/landmark-api/internal/canon"
	"github.com/yourorg/landmark-api/lpc"
)

func writeError(w http.ResponseWriter, req *http.Request, status int, code, detail string) {
	body := map[string]any{"error": code}
	if detail != "" {
		body["detail"] = detail
	}
	render.Status(req, status)
	render.JSON(w, req, body)
}

// writeUpstreamError maps a registry failure onto a response status.
func writeUpstreamError(w http.ResponseWriter, req *http.Request, err error) {
	switch {
	case errors.Is(err, context.DeadlineExceeded), lpc.IsTimeout(err):
		writeError(w, req, http.StatusGatewayTimeout, "upstream_timeout", err.Error())
	case errors.Is(err, context.Canceled):
		// client went away
		w.WriteHeader(499)
	default:
		writeError(w, req, http.StatusBadGateway, "upstream_error", err.Error())
	}
}

// queryInt reads an integer query parameter. ok is false when the value is
// present but not an integer.
func queryInt(req *http.Request, key string, def int) (int, bool) {
	v := req.URL.Query().Get(key)
	if v == "" {
		return def, true
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return i, true
}

// lpNumber turns a path identifier into its most likely LP number.
func lpNumber(raw string) (string, bool) {
	ids := canon.StandardizeLPNumber(raw)
	if len(ids) == 0 {
		return "", false
	}
	return ids[0], true
}
