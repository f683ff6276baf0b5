package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"kuantokusta/internal/domain"
)

// SearchOptions narrows a product search. Zero values are not sent.
type SearchOptions struct {
	MaxResults int
	Page       int
}

func (o SearchOptions) validate() error {
	if o.MaxResults < 0 {
		return domain.InvalidArgument("max results must not be negative, got %d", o.MaxResults)
	}
	if o.Page < 0 {
		return domain.InvalidArgument("page must not be negative, got %d", o.Page)
	}
	return nil
}

// Search queries the product catalogue. At most opts.MaxResults products
// are returned when it is set.
func (c *Client) Search(ctx context.Context, query string, opts SearchOptions) (*domain.ProductPage, error) {
	if query == "" {
		return nil, domain.InvalidArgument("search query must not be empty")
	}
	return c.products(ctx, query, opts)
}

// Browse lists the catalogue's featured products without a query
func (c *Client) Browse(ctx context.Context, maxResults int) (*domain.ProductPage, error) {
	return c.products(ctx, "", SearchOptions{MaxResults: maxResults})
}

func (c *Client) products(ctx context.Context, query string, opts SearchOptions) (*domain.ProductPage, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	params := url.Values{}
	if query != "" {
		params.Set("q", query)
	}
	setPositive(params, "rows", opts.MaxResults)
	setPositive(params, "page", opts.Page)

	var page domain.ProductPage
	if err := c.getJSON(ctx, "/products", params, &page); err != nil {
		return nil, err
	}
	if err := domain.Validate(&page); err != nil {
		return nil, fmt.Errorf("/products: %w", err)
	}

	page.Data = truncate(page.Data, opts.MaxResults)
	return &page, nil
}

// Related lists the products related to productID
func (c *Client) Related(ctx context.Context, productID int64, maxResults int) (*domain.RelatedProducts, error) {
	if productID <= 0 {
		return nil, domain.InvalidArgument("product id must be positive, got %d", productID)
	}
	if maxResults < 0 {
		return nil, domain.InvalidArgument("max results must not be negative, got %d", maxResults)
	}

	path := "/products/" + strconv.FormatInt(productID, 10) + "/related"

	var related domain.RelatedProducts
	if err := c.getJSON(ctx, path, nil, &related); err != nil {
		return nil, err
	}
	if err := domain.Validate(&related); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	related.Data = truncate(related.Data, maxResults)
	return &related, nil
}

// Popular lists the most popular products of a category
func (c *Client) Popular(ctx context.Context, categoryID int64, maxResults int) ([]domain.Product, error) {
	if categoryID <= 0 {
		return nil, domain.InvalidArgument("category id must be positive, got %d", categoryID)
	}
	if maxResults < 0 {
		return nil, domain.InvalidArgument("max results must not be negative, got %d", maxResults)
	}

	params := url.Values{}
	params.Set("categoryId", strconv.FormatInt(categoryID, 10))
	setPositive(params, "rows", maxResults)

	var products []domain.Product
	if err := c.getJSON(ctx, "/products/popular", params, &products); err != nil {
		return nil, err
	}
	if products == nil {
		return nil, fmt.Errorf("%w: /products/popular: expected an array", domain.ErrDecode)
	}
	if err := domain.ValidateEach(products); err != nil {
		return nil, fmt.Errorf("/products/popular: %w", err)
	}

	return truncate(products, maxResults), nil
}

func setPositive(params url.Values, key string, v int) {
	if v > 0 {
		params.Set(key, strconv.Itoa(v))
	}
}

// truncate keeps at most n items; n <= 0 keeps everything
func truncate[T any](items []T, n int) []T {
	if n > 0 && len(items) > n {
		return items[:n]
	}
	return items
}
