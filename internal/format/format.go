package format

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"kuantokusta/internal/domain"
)

// Format renders a result set in the given mode. Supported data are
// []domain.Product, []domain.Deal, []domain.Category and *domain.PriceHistory.
// The returned text ends with a newline unless it is empty.
func Format(data any, mode Mode) (string, error) {
	switch mode {
	case Table:
		return formatTable(data)
	case JSON:
		return formatJSON(data)
	case Compact:
		return formatCompact(data)
	}
	return "", domain.InvalidArgument("unsupported output format %q", mode)
}

func formatJSON(data any) (string, error) {
	// Reject unknown types the same way every mode does
	if _, err := Records(data); err != nil {
		return "", err
	}

	out, err := json.MarshalIndent(normalize(data), "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode json: %w", err)
	}
	return string(out) + "\n", nil
}

// normalize swaps nil slices for empty ones so they encode as []
func normalize(data any) any {
	switch v := data.(type) {
	case []domain.Product:
		if v == nil {
			return []domain.Product{}
		}
	case []domain.Deal:
		if v == nil {
			return []domain.Deal{}
		}
	case []domain.Category:
		if v == nil {
			return []domain.Category{}
		}
	case *domain.PriceHistory:
		if v.Data == nil {
			h := *v
			h.Data = []domain.PricePoint{}
			return &h
		}
	}
	return data
}

var compactEscaper = strings.NewReplacer(
	`\`, `\\`,
	"\t", `\t`,
	"\n", `\n`,
	"\r", `\r`,
)

func formatCompact(data any) (string, error) {
	set, err := Records(data)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, row := range set.Rows {
		for i, value := range row {
			if i > 0 {
				b.WriteByte('\t')
			}
			b.WriteString(compactEscaper.Replace(compactValue(value)))
		}
		b.WriteByte('\n')
	}
	return b.String(), nil
}

func compactValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	}
	return fmt.Sprint(v)
}
