package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"kuantokusta/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type obj = map[string]any

// upstream is a fake API answering fixed JSON bodies per route
type upstream struct {
	*httptest.Server

	mu      sync.Mutex
	queries []url.Values
}

func newUpstream(t *testing.T, routes map[string]http.HandlerFunc) *upstream {
	t.Helper()

	u := &upstream{}
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			u.mu.Lock()
			u.queries = append(u.queries, req.URL.Query())
			u.mu.Unlock()
			next.ServeHTTP(w, req)
		})
	})
	for pattern, h := range routes {
		r.Get(pattern, h)
	}

	u.Server = httptest.NewServer(r)
	t.Cleanup(u.Close)
	return u
}

func (u *upstream) requestCount() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.queries)
}

func (u *upstream) lastQuery() url.Values {
	u.mu.Lock()
	defer u.mu.Unlock()
	if len(u.queries) == 0 {
		return nil
	}
	return u.queries[len(u.queries)-1]
}

func jsonBody(status int, body any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(body)
	}
}

func product(id int64, name string, price float64) obj {
	return obj{
		"id":          id,
		"name":        name,
		"brand":       "Apple",
		"priceMin":    price,
		"totalOffers": 5,
		"url":         "/p/test",
		"badges":      obj{},
		"tags":        obj{},
	}
}

func productPage(total int, products ...obj) obj {
	data := append([]obj{}, products...)
	return obj{"data": data, "page": 1, "rows": len(data), "total": total}
}

func run(t *testing.T, u *upstream, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"--base-url", u.URL, "--site-url", u.URL, "--impersonate", "none"}, args...))

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSearch_Table(t *testing.T) {
	u := newUpstream(t, map[string]http.HandlerFunc{
		"/products": jsonBody(http.StatusOK, productPage(120,
			product(11406755, "Apple iPhone 16 128GB", 708),
			product(11406756, "Apple iPhone 16 256GB", 829.5),
		)),
	})

	out, err := run(t, u, "search", "iphone 16", "--max", "2")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "Found 120 products for \"iphone 16\":\n\n"))
	assert.Contains(t, out, "11406755")
	assert.Contains(t, out, "829.50€")
	assert.Equal(t, "iphone 16", u.lastQuery().Get("q"))
	assert.Equal(t, "2", u.lastQuery().Get("rows"))
}

func TestSearch_JSONHasNoSummary(t *testing.T) {
	u := newUpstream(t, map[string]http.HandlerFunc{
		"/products": jsonBody(http.StatusOK, productPage(1, product(1, "One", 1))),
	})

	out, err := run(t, u, "--format", "json", "s", "one")
	require.NoError(t, err)

	var decoded []obj
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Len(t, decoded, 1)
	assert.NotContains(t, out, "Found")
}

func TestSearch_Compact(t *testing.T) {
	u := newUpstream(t, map[string]http.HandlerFunc{
		"/products": jsonBody(http.StatusOK, productPage(1, product(7, "Seven", 7))),
	})

	out, err := run(t, u, "-f", "compact", "search", "seven")
	require.NoError(t, err)
	assert.Equal(t, "7\tSeven\tApple\t\t7\t\t5\t/p/test\t\n", out)
}

func TestSearch_Web(t *testing.T) {
	state, err := json.Marshal(obj{"props": obj{"pageProps": obj{"basePage": productPage(3, product(42, "Web Result", 10))}}})
	require.NoError(t, err)

	u := newUpstream(t, map[string]http.HandlerFunc{
		"/search": func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			fmt.Fprintf(w, `<html><body><script id="__NEXT_DATA__" type="application/json">%s</script></body></html>`, state)
		},
	})

	out, err := run(t, u, "search", "web", "--web")
	require.NoError(t, err)
	assert.Contains(t, out, "Found 3 products for \"web\":")
	assert.Contains(t, out, "Web Result")

	_, err = run(t, u, "search", "web", "--web", "--page", "2")
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestBrowse(t *testing.T) {
	u := newUpstream(t, map[string]http.HandlerFunc{
		"/products": jsonBody(http.StatusOK, productPage(500, product(1, "Featured", 12))),
	})

	out, err := run(t, u, "b")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Popular products (500 total):"))
	assert.Equal(t, "20", u.lastQuery().Get("rows"))
	assert.Empty(t, u.lastQuery().Get("q"))
}

func TestDeals(t *testing.T) {
	deal := product(67890, "Deal Product", 49.99)
	deal["badges"] = obj{"discountPercentage": 25}

	u := newUpstream(t, map[string]http.HandlerFunc{
		"/deals": jsonBody(http.StatusOK, productPage(1, deal)),
	})

	out, err := run(t, u, "deals", "--min-discount", "20", "--min-price", "10.5", "--max-price", "99.2")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "Found 1 deals:"))
	assert.Contains(t, out, "-25%")
	assert.Contains(t, out, "66.65€")

	q := u.lastQuery()
	assert.Equal(t, "FROM_20", q.Get("discountRange"))
	assert.Equal(t, "10_100", q.Get("priceRange"))
}

func TestDeals_NoFiltersSent(t *testing.T) {
	u := newUpstream(t, map[string]http.HandlerFunc{
		"/deals": jsonBody(http.StatusOK, productPage(0)),
	})

	_, err := run(t, u, "d")
	require.NoError(t, err)

	q := u.lastQuery()
	assert.False(t, q.Has("discountRange"))
	assert.False(t, q.Has("priceRange"))
}

func TestHistory(t *testing.T) {
	u := newUpstream(t, map[string]http.HandlerFunc{
		"/products/{id}/price-history": jsonBody(http.StatusOK, obj{
			"minAxis": 500,
			"maxAxis": 800,
			"data": []obj{
				{"date": "2024-01-02", "min": 590, "avg": 640},
				{"date": "2024-01-01", "min": 600, "avg": 650},
			},
		}),
	})

	out, err := run(t, u, "history", "12345", "--days", "90")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "Price history for product 12345 (90 days):\n\n"))
	assert.Less(t, strings.Index(out, "2024-01-01"), strings.Index(out, "2024-01-02"))
	assert.Equal(t, "90", u.lastQuery().Get("days"))
}

func TestHistory_InvalidDaysSendsNothing(t *testing.T) {
	u := newUpstream(t, map[string]http.HandlerFunc{
		"/products/{id}/price-history": jsonBody(http.StatusOK, obj{"data": []obj{}}),
	})

	out, err := run(t, u, "h", "12345", "--days", "60")
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	assert.Equal(t, ExitUsage, ExitCode(err))
	assert.Empty(t, out)
	assert.Zero(t, u.requestCount())
}

func TestPopularAndRelated(t *testing.T) {
	u := newUpstream(t, map[string]http.HandlerFunc{
		"/products/popular":      jsonBody(http.StatusOK, []obj{product(1, "Hot", 5), product(2, "Warm", 6)}),
		"/products/{id}/related": jsonBody(http.StatusOK, obj{"data": []obj{product(3, "Near", 7)}, "count": 9}),
	})

	out, err := run(t, u, "popular", "155", "--max", "1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Popular products in category 155:"))
	assert.Contains(t, out, "Hot")
	assert.NotContains(t, out, "Warm")
	assert.Equal(t, "155", u.lastQuery().Get("categoryId"))

	out, err = run(t, u, "r", "12345")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Related products for 12345 (9 total):"))
	assert.Contains(t, out, "Near")
}

func TestProductNotFound(t *testing.T) {
	u := newUpstream(t, map[string]http.HandlerFunc{
		"/products/{id}/related":       jsonBody(http.StatusNotFound, obj{"message": "not found"}),
		"/products/{id}/price-history": jsonBody(http.StatusNotFound, obj{"message": "not found"}),
	})

	for _, args := range [][]string{{"related", "999"}, {"history", "999"}} {
		out, err := run(t, u, args...)
		assert.ErrorIs(t, err, domain.ErrAPI)
		assert.Contains(t, err.Error(), "product 999 not found")
		assert.Equal(t, ExitFailure, ExitCode(err))
		assert.Empty(t, out)
	}
}

func TestCategories(t *testing.T) {
	u := newUpstream(t, map[string]http.HandlerFunc{
		"/categories": jsonBody(http.StatusOK, []obj{
			{"id": 1, "label": "Electronics", "slug": "electronics", "hasChild": true, "url": "/c/electronics"},
			{"id": 155, "parentId": 1, "label": "Smartphones", "slug": "smartphones", "url": "/c/smartphones"},
		}),
	})

	out, err := run(t, u, "categories")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Top-level categories:"))
	assert.Contains(t, out, "Electronics")
	assert.NotContains(t, out, "Smartphones")

	out, err = run(t, u, "c", "--parent", "1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Subcategories of 1:"))
	assert.Contains(t, out, "Smartphones")
	assert.NotContains(t, out, "Electronics")
	assert.Equal(t, "1", u.lastQuery().Get("parentId"))
}

func TestXLSXExport(t *testing.T) {
	u := newUpstream(t, map[string]http.HandlerFunc{
		"/products": jsonBody(http.StatusOK, productPage(1, product(1, "One", 1))),
	})
	path := filepath.Join(t.TempDir(), "out.xlsx")

	out, err := run(t, u, "--xlsx", path, "search", "one")
	require.NoError(t, err)
	assert.Contains(t, out, "One")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestUsageErrors(t *testing.T) {
	u := newUpstream(t, map[string]http.HandlerFunc{})

	tests := []struct {
		name string
		args []string
	}{
		{"unknown format", []string{"--format", "yaml", "browse"}},
		{"unknown profile", []string{"--impersonate", "netscape", "browse"}},
		{"missing query", []string{"search"}},
		{"extra argument", []string{"browse", "extra"}},
		{"non-numeric id", []string{"history", "abc"}},
		{"non-positive id", []string{"related", "0"}},
		{"unknown flag", []string{"deals", "--cheap"}},
		{"bad flag value", []string{"deals", "--min-discount", "lots"}},
		{"discount out of range", []string{"deals", "--min-discount", "120"}},
		{"inverted price range", []string{"deals", "--min-price", "100", "--max-price", "10"}},
		{"negative max", []string{"browse", "--max", "-1"}},
		{"zero timeout", []string{"--timeout", "0s", "browse"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, u, tt.args...)
			assert.ErrorIs(t, err, domain.ErrInvalidArgument)
			assert.Equal(t, ExitUsage, ExitCode(err))
			assert.Empty(t, out)
		})
	}
	assert.Zero(t, u.requestCount())
}

func TestUpstreamErrors(t *testing.T) {
	u := newUpstream(t, map[string]http.HandlerFunc{
		"/products": jsonBody(http.StatusInternalServerError, obj{"message": "boom"}),
		"/deals":    jsonBody(http.StatusOK, "not a page"),
	})

	out, err := run(t, u, "browse")
	assert.ErrorIs(t, err, domain.ErrAPI)
	assert.Equal(t, ExitFailure, ExitCode(err))
	assert.Empty(t, out)

	var apiErr *domain.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)

	out, err = run(t, u, "deals")
	assert.ErrorIs(t, err, domain.ErrDecode)
	assert.Equal(t, ExitFailure, ExitCode(err))
	assert.Empty(t, out)
}

func TestTimeout(t *testing.T) {
	u := newUpstream(t, map[string]http.HandlerFunc{
		"/products": func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		},
	})

	_, err := run(t, u, "--timeout", "50ms", "browse")
	assert.ErrorIs(t, err, domain.ErrNetwork)
	assert.Equal(t, ExitFailure, ExitCode(err))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitOK, ExitCode(nil))
	assert.Equal(t, ExitUsage, ExitCode(domain.InvalidArgument("bad")))
	assert.Equal(t, ExitUsage, ExitCode(fmt.Errorf("wrapped: %w", domain.ErrInvalidArgument)))
	assert.Equal(t, ExitFailure, ExitCode(&domain.APIError{StatusCode: 503}))
	assert.Equal(t, ExitFailure, ExitCode(errors.New("other")))
}
