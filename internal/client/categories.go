package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"kuantokusta/internal/domain"
)

// Categories lists the children of parentID, or the root categories when
// parentID is nil. The upstream may answer with the whole tree, so the
// result is filtered either way.
func (c *Client) Categories(ctx context.Context, parentID *int64) ([]domain.Category, error) {
	params := url.Values{}
	if parentID != nil {
		if *parentID <= 0 {
			return nil, domain.InvalidArgument("parent category id must be positive, got %d", *parentID)
		}
		params.Set("parentId", strconv.FormatInt(*parentID, 10))
	}

	var categories []domain.Category
	if err := c.getJSON(ctx, "/categories", params, &categories); err != nil {
		return nil, err
	}
	if categories == nil {
		return nil, fmt.Errorf("%w: /categories: expected an array", domain.ErrDecode)
	}
	if err := domain.ValidateEach(categories); err != nil {
		return nil, fmt.Errorf("/categories: %w", err)
	}

	filtered := make([]domain.Category, 0, len(categories))
	for _, cat := range categories {
		if parentID == nil && cat.IsRoot() || parentID != nil && cat.IsChildOf(*parentID) {
			filtered = append(filtered, cat)
		}
	}
	return filtered, nil
}
