package cli

import (
	"fmt"
	"strconv"

	"kuantokusta/internal/client"
	"kuantokusta/internal/domain"

	"github.com/spf13/cobra"
)

const (
	defaultListMax    = 20
	defaultRelatedMax = 10
	defaultDays       = 30
)

func newSearchCommand(a *app) *cobra.Command {
	var (
		maxResults int
		page       int
		web        bool
	)

	cmd := &cobra.Command{
		Use:     "search QUERY",
		Aliases: []string{"s"},
		Short:   "Search for products",
		Args:    exactArgs(1, "a search query"),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := args[0]

			var (
				result *domain.ProductPage
				err    error
			)
			if web {
				if page > 0 {
					return domain.InvalidArgument("--page is not supported with --web")
				}
				result, err = a.client.SearchWeb(cmd.Context(), query, maxResults)
			} else {
				result, err = a.client.Search(cmd.Context(), query, client.SearchOptions{MaxResults: maxResults, Page: page})
			}
			if err != nil {
				return err
			}

			summary := fmt.Sprintf("Found %d products for %q:", result.Total, query)
			return a.render(cmd.OutOrStdout(), summary, result.Data)
		},
	}

	cmd.Flags().IntVarP(&maxResults, "max", "m", defaultListMax, "maximum number of results")
	cmd.Flags().IntVar(&page, "page", 0, "result page, starting at 1")
	cmd.Flags().BoolVar(&web, "web", false, "search through the website instead of the API")
	return cmd
}

func newBrowseCommand(a *app) *cobra.Command {
	var maxResults int

	cmd := &cobra.Command{
		Use:     "browse",
		Aliases: []string{"b"},
		Short:   "Browse popular products",
		Args:    exactArgs(0, ""),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.client.Browse(cmd.Context(), maxResults)
			if err != nil {
				return err
			}

			summary := fmt.Sprintf("Popular products (%d total):", result.Total)
			return a.render(cmd.OutOrStdout(), summary, result.Data)
		},
	}

	cmd.Flags().IntVarP(&maxResults, "max", "m", defaultListMax, "maximum number of results")
	return cmd
}

func newDealsCommand(a *app) *cobra.Command {
	var (
		maxResults  int
		minDiscount int
		minPrice    float64
		maxPrice    float64
	)

	cmd := &cobra.Command{
		Use:     "deals",
		Aliases: []string{"d"},
		Short:   "List current deals and discounts",
		Args:    exactArgs(0, ""),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := client.DealFilter{MaxResults: maxResults}
			if cmd.Flags().Changed("min-discount") {
				filter.MinDiscount = &minDiscount
			}
			if cmd.Flags().Changed("min-price") {
				filter.MinPrice = &minPrice
			}
			if cmd.Flags().Changed("max-price") {
				filter.MaxPrice = &maxPrice
			}

			result, err := a.client.Deals(cmd.Context(), filter)
			if err != nil {
				return err
			}

			summary := fmt.Sprintf("Found %d deals:", result.Total)
			return a.render(cmd.OutOrStdout(), summary, result.Data)
		},
	}

	cmd.Flags().IntVarP(&maxResults, "max", "m", defaultListMax, "maximum number of results")
	cmd.Flags().IntVar(&minDiscount, "min-discount", 0, "minimum discount percentage")
	cmd.Flags().Float64Var(&minPrice, "min-price", 0, "minimum price in euros")
	cmd.Flags().Float64Var(&maxPrice, "max-price", 0, "maximum price in euros")
	return cmd
}

func newHistoryCommand(a *app) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:     "history PRODUCT_ID",
		Aliases: []string{"h"},
		Short:   "Get price history for a product",
		Args:    exactArgs(1, "a product id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "product id")
			if err != nil {
				return err
			}
			if !domain.IsValidHistoryWindow(days) {
				return domain.InvalidArgument("--days must be one of %v, got %d", domain.HistoryWindows, days)
			}

			result, err := a.client.PriceHistory(cmd.Context(), id, days)
			if err != nil {
				return productError(id, err)
			}

			summary := fmt.Sprintf("Price history for product %d (%d days):", id, days)
			return a.render(cmd.OutOrStdout(), summary, result)
		},
	}

	cmd.Flags().IntVarP(&days, "days", "d", defaultDays, "days of history (30 or 90)")
	return cmd
}

func newPopularCommand(a *app) *cobra.Command {
	var maxResults int

	cmd := &cobra.Command{
		Use:     "popular CATEGORY_ID",
		Aliases: []string{"p"},
		Short:   "Get popular products in a category",
		Args:    exactArgs(1, "a category id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "category id")
			if err != nil {
				return err
			}

			result, err := a.client.Popular(cmd.Context(), id, maxResults)
			if err != nil {
				return err
			}

			summary := fmt.Sprintf("Popular products in category %d:", id)
			return a.render(cmd.OutOrStdout(), summary, result)
		},
	}

	cmd.Flags().IntVarP(&maxResults, "max", "m", defaultRelatedMax, "maximum number of results")
	return cmd
}

func newRelatedCommand(a *app) *cobra.Command {
	var maxResults int

	cmd := &cobra.Command{
		Use:     "related PRODUCT_ID",
		Aliases: []string{"r"},
		Short:   "Get related products",
		Args:    exactArgs(1, "a product id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "product id")
			if err != nil {
				return err
			}

			result, err := a.client.Related(cmd.Context(), id, maxResults)
			if err != nil {
				return productError(id, err)
			}

			summary := fmt.Sprintf("Related products for %d (%d total):", id, result.Count)
			return a.render(cmd.OutOrStdout(), summary, result.Data)
		},
	}

	cmd.Flags().IntVarP(&maxResults, "max", "m", defaultRelatedMax, "maximum number of results")
	return cmd
}

func newCategoriesCommand(a *app) *cobra.Command {
	var parent int64

	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"c"},
		Short:   "List categories",
		Args:    exactArgs(0, ""),
		RunE: func(cmd *cobra.Command, args []string) error {
			var parentID *int64
			summary := "Top-level categories:"
			if cmd.Flags().Changed("parent") {
				parentID = &parent
				summary = fmt.Sprintf("Subcategories of %d:", parent)
			}

			result, err := a.client.Categories(cmd.Context(), parentID)
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), summary, result)
		},
	}

	cmd.Flags().Int64VarP(&parent, "parent", "p", 0, "parent category id (show subcategories)")
	return cmd
}

// exactArgs is cobra.ExactArgs with errors classified as invalid arguments
func exactArgs(n int, what string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) == n {
			return nil
		}
		if n == 0 {
			return domain.InvalidArgument("%s takes no arguments, got %d", cmd.Name(), len(args))
		}
		return domain.InvalidArgument("%s expects %s", cmd.Name(), what)
	}
}

// productError names the product when the upstream does not know it
func productError(id int64, err error) error {
	if client.IsNotFound(err) {
		return fmt.Errorf("product %d not found: %w", id, err)
	}
	return err
}

func parseID(s, what string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.InvalidArgument("%s must be a positive integer, got %q", what, s)
	}
	return id, nil
}
