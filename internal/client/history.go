package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"kuantokusta/internal/domain"
)

// priceHistoryBody is the upstream history payload. Prices are pointers so
// an absent key is told apart from a zero price.
type priceHistoryBody struct {
	MinAxis *float64         `json:"minAxis" validate:"required"`
	MaxAxis *float64         `json:"maxAxis" validate:"required"`
	Data    []pricePointBody `json:"data" validate:"required,dive"`
}

type pricePointBody struct {
	Date string   `json:"date"`
	Min  *float64 `json:"min" validate:"required"`
	Avg  *float64 `json:"avg" validate:"required"`
	Max  *float64 `json:"max"`
}

func (b *priceHistoryBody) history() *domain.PriceHistory {
	h := &domain.PriceHistory{
		MinAxis: *b.MinAxis,
		MaxAxis: *b.MaxAxis,
		Data:    make([]domain.PricePoint, 0, len(b.Data)),
	}
	for _, p := range b.Data {
		h.Data = append(h.Data, domain.PricePoint{Date: p.Date, Min: *p.Min, Avg: *p.Avg, Max: p.Max})
	}
	return h
}

// PriceHistory returns the daily price history of a product over the last
// days days, oldest first. The upstream only serves 30 and 90 day windows.
func (c *Client) PriceHistory(ctx context.Context, productID int64, days int) (*domain.PriceHistory, error) {
	if productID <= 0 {
		return nil, domain.InvalidArgument("product id must be positive, got %d", productID)
	}
	if !domain.IsValidHistoryWindow(days) {
		return nil, domain.InvalidArgument("days must be one of %v, got %d", domain.HistoryWindows, days)
	}

	path := "/products/" + strconv.FormatInt(productID, 10) + "/price-history"
	params := url.Values{}
	params.Set("days", strconv.Itoa(days))

	var body priceHistoryBody
	if err := c.getJSON(ctx, path, params, &body); err != nil {
		return nil, err
	}
	if err := domain.Validate(&body); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	history := body.history()
	if err := domain.Validate(history); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	history.SortByDate()
	return history, nil
}
