package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
)

// fakeAPI is an in-process stand-in for the upstream, routing requests with
// the same path patterns the real API uses
type fakeAPI struct {
	*httptest.Server

	mu       sync.Mutex
	requests []*http.Request
	routes   map[string]http.HandlerFunc
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()

	f := &fakeAPI{routes: map[string]http.HandlerFunc{}}

	r := chi.NewRouter()
	r.Use(f.record)
	for _, pattern := range []string{
		"/products",
		"/products/popular",
		"/products/{id}/price-history",
		"/products/{id}/related",
		"/deals",
		"/categories",
		"/search",
	} {
		r.Get(pattern, func(w http.ResponseWriter, req *http.Request) {
			f.mu.Lock()
			h, ok := f.routes[pattern]
			f.mu.Unlock()
			if !ok {
				http.NotFound(w, req)
				return
			}
			h(w, req)
		})
	}

	f.Server = httptest.NewServer(r)
	t.Cleanup(f.Close)
	return f
}

func (f *fakeAPI) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.requests = append(f.requests, r.Clone(r.Context()))
		f.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

// handle registers h for a route pattern
func (f *fakeAPI) handle(pattern string, h http.HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[pattern] = h
}

// respond registers a fixed JSON response for a route pattern
func (f *fakeAPI) respond(pattern string, status int, body any) {
	f.handle(pattern, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, status, body)
	})
}

func (f *fakeAPI) requestCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func (f *fakeAPI) lastQuery() url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		return nil
	}
	return f.requests[len(f.requests)-1].URL.Query()
}

func (f *fakeAPI) client() *Client {
	return New(f.URL, WithSiteURL(f.URL))
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	switch b := body.(type) {
	case string:
		w.Write([]byte(b))
	default:
		json.NewEncoder(w).Encode(b)
	}
}

type obj = map[string]any

func productJSON(id int64, name string, price float64) obj {
	return obj{
		"id":          id,
		"name":        name,
		"brand":       "Apple",
		"priceMin":    price,
		"totalOffers": 5,
		"url":         "/p/test",
		"images":      []string{},
		"badges":      obj{},
		"tags":        obj{},
	}
}
