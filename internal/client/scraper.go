package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"kuantokusta/internal/domain"

	"github.com/PuerkitoBio/goquery"
)

// nextData is the part of the website's embedded page state holding the
// search results
type nextData struct {
	Props struct {
		PageProps struct {
			BasePage *domain.ProductPage `json:"basePage"`
		} `json:"pageProps"`
	} `json:"props"`
}

// SearchWeb runs a search through the server-rendered website instead of the
// JSON API and extracts the results embedded in the page.
func (c *Client) SearchWeb(ctx context.Context, query string, maxResults int) (*domain.ProductPage, error) {
	if query == "" {
		return nil, domain.InvalidArgument("search query must not be empty")
	}
	if maxResults < 0 {
		return nil, domain.InvalidArgument("max results must not be negative, got %d", maxResults)
	}
	if c.siteURL == "" {
		return nil, domain.InvalidArgument("no website url configured")
	}

	params := url.Values{}
	params.Set("q", query)

	html, err := c.get(ctx, c.siteURL+"/search", params,
		"text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	if err != nil {
		return nil, err
	}

	page, err := ParseSearchPage(html)
	if err != nil {
		return nil, err
	}
	page.Data = truncate(page.Data, maxResults)
	return page, nil
}

// ParseSearchPage extracts the search results from a rendered search page
func ParseSearchPage(html []byte) (*domain.ProductPage, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("%w: search page: %v", domain.ErrDecode, err)
	}

	script := doc.Find(`script#__NEXT_DATA__`).First()
	if script.Length() == 0 {
		// The edge protection answers with a 200 block page
		if strings.Contains(doc.Text(), "Access Denied") {
			return nil, fmt.Errorf("search page: %w", &domain.APIError{
				StatusCode: http.StatusForbidden,
				Message:    "access denied by CDN, try again later",
			})
		}
		return nil, fmt.Errorf("%w: search page: no embedded page data", domain.ErrDecode)
	}

	var data nextData
	if err := json.Unmarshal([]byte(script.Text()), &data); err != nil {
		return nil, fmt.Errorf("%w: search page data: %v", domain.ErrDecode, err)
	}

	page := data.Props.PageProps.BasePage
	if page == nil {
		return nil, fmt.Errorf("%w: search page data: missing results", domain.ErrDecode)
	}
	if err := domain.Validate(page); err != nil {
		return nil, fmt.Errorf("search page data: %w", err)
	}
	return page, nil
}
