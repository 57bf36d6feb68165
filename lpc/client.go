package lpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/yourorg/landmark-api/internal/metrics"
)

const (
	DefaultBaseURL = "https://api.nyc.gov/lpc"
	DefaultTimeout = 30 * time.Second

	maxBodyBytes = 4 << 20
)

type Config struct {
	BaseURL string
	// Token is sent as a bearer credential when set.
	Token   string
	Timeout time.Duration
	// RetryMax is the number of transport retries. Zero keeps every call a
	// single attempt.
	RetryMax int
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
}

// Client talks to the LPC registry. It is safe for concurrent use and holds no
// per-call state.
type Client struct {
	token   string
	baseURL string
	http    *retryablehttp.Client
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewClient(cfg Config) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}

	rc := retryablehttp.NewClient()
	rc.RetryWaitMin = 100 * time.Millisecond
	rc.RetryWaitMax = 900 * time.Millisecond
	rc.RetryMax = max(cfg.RetryMax, 0)
	rc.HTTPClient.Timeout = timeout
	// Hand every response back so status mapping happens in one place.
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	rc.Logger = logger.With("component", "lpc.http")

	return &Client{
		token:   cfg.Token,
		baseURL: base,
		http:    rc,
		logger:  logger,
		metrics: cfg.Metrics,
	}
}

// Do performs one registry call and returns the decoded JSON body: a
// map[string]any, a []any, a scalar, or nil for an empty body. Numbers are
// json.Number.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body any) (any, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var rawBody any
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, &RequestError{Method: method, Path: path, Err: fmt.Errorf("encode body: %w", err)}
		}
		rawBody = b
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, method, u, rawBody)
	if err != nil {
		return nil, &RequestError{Method: method, Path: path, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	endpoint := endpointLabel(path)
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.ObserveUpstream(endpoint, 0, time.Since(start))
		return nil, &RequestError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()
	c.metrics.ObserveUpstream(endpoint, resp.StatusCode, time.Since(start))

	b, readErr := ioReadAllLimit(resp.Body, maxBodyBytes)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &RequestError{Method: method, Path: path, StatusCode: resp.StatusCode, Body: truncate(string(b), 512)}
	}
	if readErr != nil {
		return nil, &RequestError{Method: method, Path: path, StatusCode: resp.StatusCode, Err: readErr}
	}
	v, err := decodeJSON(b)
	if err != nil {
		return nil, &RequestError{Method: method, Path: path, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return v, nil
}

// GetReport fetches one landmark report by LP number (or any candidate form).
func (c *Client) GetReport(ctx context.Context, id string) (any, error) {
	return c.Do(ctx, http.MethodGet, "/api/LpcReport/"+url.PathEscape(id), nil, nil)
}

// ListReports fetches one page of the report listing.
func (c *Client) ListReports(ctx context.Context, limit, page int, f Filters) (any, error) {
	q := url.Values{}
	setIf(q, "Borough", f.Borough)
	setIf(q, "ObjectType", f.ObjectType)
	setIf(q, "Neighborhood", f.Neighborhood)
	setIf(q, "SearchText", f.SearchText)
	setIf(q, "ParentStyleList", f.ParentStyleList)
	setIf(q, "SortColumn", f.SortColumn)
	setIf(q, "SortOrder", f.SortOrder)
	path := fmt.Sprintf("/api/LpcReport/%d/%d", limit, page)
	return c.Do(ctx, http.MethodGet, path, q, nil)
}

// GetBuildings fetches the buildings designated under one LP number.
func (c *Client) GetBuildings(ctx context.Context, lpNumber string, limit int) (any, error) {
	q := url.Values{}
	q.Set("LpcNumber", lpNumber)
	return c.Do(ctx, http.MethodGet, fmt.Sprintf("/api/LpcReport/landmark/%d/1", limit), q, nil)
}

func (c *Client) GetPhotos(ctx context.Context, lpNumber string, limit int) (any, error) {
	q := url.Values{}
	q.Set("LpcId", lpNumber)
	return c.Do(ctx, http.MethodGet, fmt.Sprintf("/api/PhotoArchive/%d/1", limit), q, nil)
}

func (c *Client) GetLandUse(ctx context.Context, id string) (any, error) {
	return c.Do(ctx, http.MethodGet, "/api/Pluto/"+url.PathEscape(id), nil, nil)
}

// GetReference fetches a lookup list: borough, objectType or neighborhood.
func (c *Client) GetReference(ctx context.Context, kind string) (any, error) {
	return c.Do(ctx, http.MethodGet, "/api/Reference/"+url.PathEscape(kind), nil, nil)
}

// GetWebContent fetches associated web content for several landmarks at once.
func (c *Client) GetWebContent(ctx context.Context, lpNumbers []string) (any, error) {
	body := struct {
		LpcIDs []string `json:"lpcIds"`
	}{LpcIDs: lpNumbers}
	return c.Do(ctx, http.MethodPost, "/api/WebContent/batch", nil, body)
}

func setIf(q url.Values, k, v string) {
	if v = strings.TrimSpace(v); v != "" {
		q.Set(k, v)
	}
}

// endpointLabel keeps metric cardinality bounded: "/api/LpcReport/50/1" -> "LpcReport".
func endpointLabel(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) >= 3 && parts[1] == "LpcReport" && parts[2] == "landmark" {
		return "LpcReport.landmark"
	}
	if len(parts) >= 2 {
		return parts[1]
	}
	return "other"
}

func decodeJSON(b []byte) (any, error) {
	if len(bytes.TrimSpace(b)) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

func ioReadAllLimit(r io.Reader, limit int64) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > limit {
		return nil, errors.New("payload too large (limit " + strconv.FormatInt(limit, 10) + " bytes)")
	}
	return b, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
