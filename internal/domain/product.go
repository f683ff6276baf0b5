package domain

// Product represents a product listing as returned by the search, popular
// and related endpoints
type Product struct {
	ID          int64    `json:"id" validate:"gt=0"`
	Name        string   `json:"name" validate:"required"`
	Brand       string   `json:"brand"`
	Category    string   `json:"category"`
	PriceMin    float64  `json:"priceMin" validate:"gte=0"`
	PriceMax    float64  `json:"priceMax" validate:"gte=0"`
	TotalOffers int      `json:"totalOffers" validate:"gte=0"`
	URL         string   `json:"url"`
	Images      []string `json:"images"`
	Badges      Badges   `json:"badges"`
	Rating      *Rating  `json:"rating,omitempty"`
	Tags        Tags     `json:"tags"`
}

// Badges are the merchandising flags attached to a product
type Badges struct {
	IsBestSeller        bool `json:"isBestSeller"`
	IsBestPrice         bool `json:"isBestPrice"`
	IsCustomersFavorite bool `json:"isCustomersFavorite"`
	DiscountPercentage  *int `json:"discountPercentage,omitempty" validate:"omitempty,gte=0,lte=100"`
}

// Rating is the aggregated customer rating of a product
type Rating struct {
	RatingCount  float64 `json:"ratingCount" validate:"gte=0"`
	ReviewsCount int     `json:"reviewsCount" validate:"gte=0"`
}

// Tags are the listing attributes attached to a product
type Tags struct {
	IsMarketplace      bool `json:"isMarketplace"`
	AdultOnly          bool `json:"adultOnly"`
	HasSplitPayment    bool `json:"hasSplitPayment"`
	DiscountPercentage *int `json:"discountPercentage,omitempty" validate:"omitempty,gte=0,lte=100"`
}

// ImageURL returns the primary product image, or an empty string
func (p Product) ImageURL() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// ProductPage is one page of a product listing
type ProductPage struct {
	Data  []Product `json:"data" validate:"required,dive"`
	Page  int       `json:"page"`
	Rows  int       `json:"rows"`
	Total int64     `json:"total"`
}

// RelatedProducts is the response of the related products endpoint
type RelatedProducts struct {
	Data  []Product `json:"data" validate:"required,dive"`
	Count int64     `json:"count"`
}
