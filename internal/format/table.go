package format

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"kuantokusta/internal/domain"

	pretty "github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// MaxCategoryRows caps the category table; the rest is summarized
const MaxCategoryRows = 50

const (
	left  = text.AlignLeft
	right = text.AlignRight
)

type column struct {
	title string
	align text.Align
}

type table struct {
	prefix  string
	columns []column
	rows    [][]string
	suffix  string
}

func formatTable(data any) (string, error) {
	var t *table

	switch v := data.(type) {
	case []domain.Product:
		t = productTable(v)
	case []domain.Deal:
		t = dealTable(v)
	case []domain.Category:
		t = categoryTable(v)
	case *domain.PriceHistory:
		if v == nil {
			return "", domain.InvalidArgument("nil price history")
		}
		t = historyTable(v)
	default:
		return "", domain.InvalidArgument("cannot format %T", data)
	}

	return t.render(), nil
}

func productTable(products []domain.Product) *table {
	t := &table{columns: []column{
		{"ID", left}, {"Name", left}, {"Price", right}, {"Stores", right}, {"Rating", right}, {"Badge", left},
	}}

	for _, p := range products {
		rating := ""
		if p.Rating != nil {
			rating = strconv.FormatFloat(p.Rating.RatingCount, 'f', 1, 64)
		}
		badge := ""
		switch {
		case p.Badges.IsBestSeller:
			badge = "best seller"
		case p.Badges.IsBestPrice:
			badge = "best price"
		}

		t.rows = append(t.rows, []string{
			strconv.FormatInt(p.ID, 10),
			Truncate(p.Name, 48),
			euros(p.PriceMin),
			strconv.Itoa(p.TotalOffers),
			rating,
			badge,
		})
	}
	return t
}

func dealTable(deals []domain.Deal) *table {
	t := &table{columns: []column{
		{"ID", left}, {"Name", left}, {"Price", right}, {"Off", right}, {"Was", right}, {"Stores", right},
	}}

	for _, d := range deals {
		off, was := "", ""
		if d.DiscountPercentage > 0 {
			off = fmt.Sprintf("-%d%%", d.DiscountPercentage)
		}
		if d.OriginalPrice > 0 {
			was = euros(d.OriginalPrice)
		}

		t.rows = append(t.rows, []string{
			strconv.FormatInt(d.ID, 10),
			Truncate(d.Name, 43),
			euros(d.PriceMin),
			off,
			was,
			strconv.Itoa(d.TotalOffers),
		})
	}
	return t
}

func categoryTable(categories []domain.Category) *table {
	t := &table{columns: []column{
		{"ID", left}, {"Parent", left}, {"Name", left}, {"Slug", left},
	}}

	// Roots first, then by parent and id, for a tree-like listing
	sorted := slices.Clone(categories)
	slices.SortStableFunc(sorted, func(a, b domain.Category) int {
		pa, pb := parentKey(a), parentKey(b)
		if pa != pb {
			if pa < pb {
				return -1
			}
			return 1
		}
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})

	for i, c := range sorted {
		if i == MaxCategoryRows {
			t.suffix = fmt.Sprintf("\n... and %d more categories\n", len(sorted)-MaxCategoryRows)
			break
		}
		parent := "-"
		if c.ParentID != nil {
			parent = strconv.FormatInt(*c.ParentID, 10)
		}
		t.rows = append(t.rows, []string{
			strconv.FormatInt(c.ID, 10),
			parent,
			Truncate(c.Label, 38),
			Truncate(c.Slug, 30),
		})
	}
	return t
}

func parentKey(c domain.Category) int64 {
	if c.ParentID == nil {
		return 0
	}
	return *c.ParentID
}

func historyTable(h *domain.PriceHistory) *table {
	t := &table{columns: []column{
		{"Date", left}, {"Min", right}, {"Avg", right}, {"Max", right},
	}}
	if len(h.Data) > 0 {
		t.prefix = fmt.Sprintf("Price range: %s - %s\n\n", euros(h.MinAxis), euros(h.MaxAxis))
	}

	for _, p := range h.Data {
		high := ""
		if p.Max != nil {
			high = euros(*p.Max)
		}
		t.rows = append(t.rows, []string{p.Date, euros(p.Min), euros(p.Avg), high})
	}
	return t
}

// plainStyle lays a table out as columns two spaces apart under a dashed
// rule, with no borders and headers as given
var plainStyle = func() pretty.Style {
	style := pretty.StyleDefault
	style.Name = "plain"
	style.Box = pretty.BoxStyle{
		MiddleHorizontal: "-",
		MiddleSeparator:  "  ",
		MiddleVertical:   "  ",
	}
	style.Format.Header = text.FormatDefault
	style.Format.Footer = text.FormatDefault
	style.Options = pretty.Options{
		SeparateColumns: true,
		SeparateHeader:  true,
	}
	return style
}()

func (t *table) render() string {
	w := pretty.NewWriter()
	w.SetStyle(plainStyle)

	header := make(pretty.Row, len(t.columns))
	configs := make([]pretty.ColumnConfig, len(t.columns))
	for i, c := range t.columns {
		header[i] = c.title
		configs[i] = pretty.ColumnConfig{Number: i + 1, Align: c.align, AlignHeader: c.align}
	}
	w.AppendHeader(header)
	w.SetColumnConfigs(configs)

	for _, cells := range t.rows {
		row := make(pretty.Row, len(cells))
		for i, cell := range cells {
			row[i] = cell
		}
		w.AppendRow(row)
	}

	var b strings.Builder
	b.WriteString(t.prefix)
	// The last column is padded to its width
	for _, line := range strings.Split(w.Render(), "\n") {
		b.WriteString(strings.TrimRight(line, " "))
		b.WriteByte('\n')
	}
	b.WriteString(t.suffix)
	return b.String()
}

func euros(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64) + "€"
}

var displayCleaner = strings.NewReplacer("\t", " ", "\n", " ", "\r", " ")

// Truncate shortens s to at most n runes for display, marking the cut with
// an ellipsis. Control whitespace is flattened to spaces.
func Truncate(s string, n int) string {
	s = displayCleaner.Replace(s)
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	return string(runes[:n-1]) + "…"
}
