package domain

import "github.com/shopspring/decimal"

// Deal is a discounted product listing
type Deal struct {
	Product
	DiscountPercentage int     `json:"discountPercentage" validate:"gte=0,lte=100"`
	OriginalPrice      float64 `json:"originalPrice" validate:"gte=0"`
}

// DealPage is one page of the deals listing
type DealPage struct {
	Data  []Deal `json:"data" validate:"required,dive"`
	Page  int    `json:"page"`
	Rows  int    `json:"rows"`
	Total int64  `json:"total"`
}

// ResolveDiscount fills DiscountPercentage and OriginalPrice from the badge
// and tag metadata when the upstream payload leaves them out.
func (d *Deal) ResolveDiscount() {
	if d.DiscountPercentage == 0 {
		switch {
		case d.Badges.DiscountPercentage != nil:
			d.DiscountPercentage = *d.Badges.DiscountPercentage
		case d.Tags.DiscountPercentage != nil:
			d.DiscountPercentage = *d.Tags.DiscountPercentage
		}
	}

	if d.OriginalPrice == 0 && d.DiscountPercentage > 0 && d.DiscountPercentage < 100 {
		remaining := decimal.NewFromInt(int64(100 - d.DiscountPercentage))
		d.OriginalPrice = decimal.NewFromFloat(d.PriceMin).
			Mul(decimal.NewFromInt(100)).
			Div(remaining).
			Round(2).
			InexactFloat64()
	}
}
