package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"restaurant-dashboard/internal/domain"
	"restaurant-dashboard/internal/microservices/dashboard"
	"restaurant-dashboard/internal/store"
)

type ordersOutput struct {
	Orders []domain.Order  `json:"orders"`
	Stats  store.Aggregate `json:"stats"`
}

func NewOrdersCommand(rootOpts *RootOptions) *cobra.Command {
	var category, search, sortBy string
	var limit int
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Fetch orders once and print a filtered, sorted view",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := store.ParseCategory(category)
			if err != nil {
				return err
			}
			by, err := store.ParseSort(sortBy)
			if err != nil {
				return err
			}
			cfg, err := rootOpts.load()
			if err != nil {
				return err
			}
			all, err := dashboard.NewGateway(cfg).FetchOrders(cmd.Context())
			if err != nil {
				return err
			}

			out := ordersOutput{
				Orders: store.DeriveFrom(all, store.Filter{Category: cat, Search: search}, by),
				Stats:  store.AggregateOf(all),
			}
			if limit > 0 && len(out.Orders) > limit {
				out.Orders = out.Orders[:limit]
			}
			if rootOpts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), out)
			}
			return printOrders(cmd, out)
		},
	}
	cmd.Flags().StringVar(&category, "category", "all", "all|serving|served|paid|unpaid")
	cmd.Flags().StringVarP(&search, "search", "s", "", "match order id or table number")
	cmd.Flags().StringVar(&sortBy, "sort", string(store.Newest), "newest|oldest|amount-high|amount-low")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "print at most n orders")
	return cmd
}

func printOrders(cmd *cobra.Command, out ordersOutput) error {
	rows := make([][]string, 0, len(out.Orders))
	for _, o := range out.Orders {
		rows = append(rows, []string{
			o.ID.String(),
			strconv.Itoa(o.TableNo),
			fmt.Sprintf("%.2f", o.Amount),
			yesNo(o.ServingStatus, "served", "pending"),
			yesNo(o.PaymentStatus, "paid", "unpaid"),
			o.Date + " " + o.Time,
		})
	}
	w := cmd.OutOrStdout()
	if err := table(w, []string{"ORDER", "TABLE", "AMOUNT", "SERVING", "PAYMENT", "PLACED"}, rows); err != nil {
		return err
	}
	s := out.Stats
	_, err := fmt.Fprintf(w, "\n%d orders, %d pending, %d served, %d unpaid, revenue %.2f\n",
		s.Total, s.PendingCount, s.CompletedCount, s.UnpaidCount, s.TotalRevenue)
	return err
}
