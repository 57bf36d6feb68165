package lpc

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/yourorg/landmark-api/internal/logging"
)

// fakeUpstream answers from canned payloads keyed by call. Unset entries
// answer 404.
type fakeUpstream struct {
	mu sync.Mutex

	reports   map[string]any
	pages     map[[2]int]any // {limit, page}
	pageErr   map[[2]int]error
	buildings map[string]any
	buildErr  error
	photos    any
	landUse   any
	reference map[string]any
	web       any

	reportCalls []string
	listCalls   [][2]int
	webCalls    [][]string
}

func notFound(path string) error {
	return &RequestError{Method: http.MethodGet, Path: path, StatusCode: http.StatusNotFound}
}

func (f *fakeUpstream) GetReport(_ context.Context, id string) (any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reportCalls = append(f.reportCalls, id)
	if v, ok := f.reports[id]; ok {
		if err, isErr := v.(error); isErr {
			return nil, err
		}
		return v, nil
	}
	return nil, notFound("/api/LpcReport/" + id)
}

func (f *fakeUpstream) ListReports(_ context.Context, limit, page int, _ Filters) (any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := [2]int{limit, page}
	f.listCalls = append(f.listCalls, key)
	if err, ok := f.pageErr[key]; ok {
		return nil, err
	}
	if v, ok := f.pages[key]; ok {
		return v, nil
	}
	return nil, notFound(fmt.Sprintf("/api/LpcReport/%d/%d", limit, page))
}

func (f *fakeUpstream) GetBuildings(_ context.Context, lp string, _ int) (any, error) {
	if f.buildErr != nil {
		return nil, f.buildErr
	}
	if v, ok := f.buildings[lp]; ok {
		return v, nil
	}
	return nil, notFound("/api/LpcReport/landmark")
}

func (f *fakeUpstream) GetPhotos(context.Context, string, int) (any, error) {
	if f.photos == nil {
		return nil, notFound("/api/PhotoArchive")
	}
	return f.photos, nil
}

func (f *fakeUpstream) GetLandUse(context.Context, string) (any, error) {
	if f.landUse == nil {
		return nil, notFound("/api/Pluto")
	}
	return f.landUse, nil
}

func (f *fakeUpstream) GetReference(_ context.Context, kind string) (any, error) {
	if v, ok := f.reference[kind]; ok {
		return v, nil
	}
	return nil, notFound("/api/Reference/" + kind)
}

func (f *fakeUpstream) GetWebContent(_ context.Context, ids []string) (any, error) {
	f.mu.Lock()
	f.webCalls = append(f.webCalls, ids)
	f.mu.Unlock()
	return f.web, nil
}

// decoded turns a JSON literal into the value Client.Do would return.
func decoded(s string) any {
	v, err := decodeJSON([]byte(s))
	if err != nil {
		panic(err)
	}
	return v
}

func newTestService(up Upstream) *Service {
	return NewService(up, Options{Logger: logging.Discard()})
}
