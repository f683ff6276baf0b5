package format

import (
	"kuantokusta/internal/domain"
)

// RecordSet is the canonical flat view of a result set: one row per record,
// values in the entity's attribute order. Absent optional values are nil.
type RecordSet struct {
	Name    string
	Columns []string
	Rows    [][]any
}

var (
	productColumns  = []string{"id", "name", "brand", "category", "priceMin", "priceMax", "totalOffers", "url", "image"}
	dealColumns     = append(append([]string{}, productColumns...), "discountPercentage", "originalPrice")
	categoryColumns = []string{"id", "parentId", "label", "slug", "hasChild", "url"}
	historyColumns  = []string{"date", "min", "avg", "max"}
)

// Records returns the canonical record view of data
func Records(data any) (*RecordSet, error) {
	switch v := data.(type) {
	case []domain.Product:
		rows := make([][]any, 0, len(v))
		for _, p := range v {
			rows = append(rows, productValues(p))
		}
		return &RecordSet{Name: "products", Columns: productColumns, Rows: rows}, nil

	case []domain.Deal:
		rows := make([][]any, 0, len(v))
		for _, d := range v {
			rows = append(rows, append(productValues(d.Product), d.DiscountPercentage, d.OriginalPrice))
		}
		return &RecordSet{Name: "deals", Columns: dealColumns, Rows: rows}, nil

	case []domain.Category:
		rows := make([][]any, 0, len(v))
		for _, c := range v {
			var parent any
			if c.ParentID != nil {
				parent = *c.ParentID
			}
			rows = append(rows, []any{c.ID, parent, c.Label, c.Slug, c.HasChild, c.URL})
		}
		return &RecordSet{Name: "categories", Columns: categoryColumns, Rows: rows}, nil

	case *domain.PriceHistory:
		if v == nil {
			return nil, domain.InvalidArgument("nil price history")
		}
		rows := make([][]any, 0, len(v.Data))
		for _, p := range v.Data {
			var high any
			if p.Max != nil {
				high = *p.Max
			}
			rows = append(rows, []any{p.Date, p.Min, p.Avg, high})
		}
		return &RecordSet{Name: "history", Columns: historyColumns, Rows: rows}, nil
	}

	return nil, domain.InvalidArgument("cannot format %T", data)
}

func productValues(p domain.Product) []any {
	var priceMax any
	if p.PriceMax > 0 {
		priceMax = p.PriceMax
	}
	return []any{p.ID, p.Name, p.Brand, p.Category, p.PriceMin, priceMax, p.TotalOffers, p.URL, p.ImageURL()}
}
