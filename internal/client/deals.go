package client

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strconv"

	"kuantokusta/internal/domain"
)

// Bounds used to fill an open side of priceRange
const (
	dealsPriceFloor   = 0
	dealsPriceCeiling = 50000
)

// DealFilter narrows the deals listing. Nil filters are not sent.
type DealFilter struct {
	MinDiscount *int
	MinPrice    *float64
	MaxPrice    *float64
	MaxResults  int
	Page        int
}

func (f DealFilter) validate() error {
	if f.MinDiscount != nil && (*f.MinDiscount < 0 || *f.MinDiscount > 100) {
		return domain.InvalidArgument("min discount must be between 0 and 100, got %d", *f.MinDiscount)
	}
	if f.MinPrice != nil && *f.MinPrice < 0 {
		return domain.InvalidArgument("min price must not be negative, got %.2f", *f.MinPrice)
	}
	if f.MaxPrice != nil && *f.MaxPrice < 0 {
		return domain.InvalidArgument("max price must not be negative, got %.2f", *f.MaxPrice)
	}
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		return domain.InvalidArgument("min price %.2f is above max price %.2f", *f.MinPrice, *f.MaxPrice)
	}
	if f.MaxResults < 0 {
		return domain.InvalidArgument("max results must not be negative, got %d", f.MaxResults)
	}
	if f.Page < 0 {
		return domain.InvalidArgument("page must not be negative, got %d", f.Page)
	}
	return nil
}

// params encodes the filter. The upstream takes whole euros in
// priceRange=MIN_MAX and a lower discount bound as discountRange=FROM_N.
func (f DealFilter) params() url.Values {
	params := url.Values{}

	if f.MinPrice != nil || f.MaxPrice != nil {
		low, high := float64(dealsPriceFloor), float64(dealsPriceCeiling)
		if f.MinPrice != nil {
			low = math.Floor(*f.MinPrice)
		}
		if f.MaxPrice != nil {
			high = math.Ceil(*f.MaxPrice)
		}
		params.Set("priceRange", fmt.Sprintf("%d_%d", int64(low), int64(high)))
	}

	if f.MinDiscount != nil {
		params.Set("discountRange", "FROM_"+strconv.Itoa(*f.MinDiscount))
	}

	setPositive(params, "rows", f.MaxResults)
	setPositive(params, "page", f.Page)
	return params
}

// Deals lists current discounts
func (c *Client) Deals(ctx context.Context, filter DealFilter) (*domain.DealPage, error) {
	if err := filter.validate(); err != nil {
		return nil, err
	}

	var page domain.DealPage
	if err := c.getJSON(ctx, "/deals", filter.params(), &page); err != nil {
		return nil, err
	}
	for i := range page.Data {
		page.Data[i].ResolveDiscount()
	}
	if err := domain.Validate(&page); err != nil {
		return nil, fmt.Errorf("/deals: %w", err)
	}

	page.Data = truncate(page.Data, filter.MaxResults)
	return &page, nil
}
