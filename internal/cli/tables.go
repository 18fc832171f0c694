package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"restaurant-dashboard/internal/common/logger"
	"restaurant-dashboard/internal/microservices/dashboard"
	"restaurant-dashboard/internal/microservices/dashboard/service"
	"restaurant-dashboard/internal/store"
)

func NewTablesCommand(rootOpts *RootOptions) *cobra.Command {
	var filter, search string
	cmd := &cobra.Command{
		Use:   "tables",
		Short: "List tables and occupancy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := tableService(cmd, rootOpts)
			if err != nil {
				return err
			}
			view, err := svc.List(cmd.Context(), filter, search)
			if err != nil {
				return err
			}
			if rootOpts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), view)
			}
			return printTables(cmd, view)
		},
	}
	cmd.Flags().StringVar(&filter, "filter", service.TableFilterAll, "all|occupied|available")
	cmd.Flags().StringVarP(&search, "search", "s", "", `match "Table N"`)
	cmd.AddCommand(newTablesClearCommand(rootOpts))
	return cmd
}

func newTablesClearCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear <table-no>",
		Short: "Check the customer out of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			no, err := strconv.Atoi(args[0])
			if err != nil || no <= 0 {
				return fmt.Errorf("table number must be a positive integer, got %q", args[0])
			}
			svc, err := tableService(cmd, rootOpts)
			if err != nil {
				return err
			}
			t, err := svc.Clear(cmd.Context(), no)
			if err != nil {
				return err
			}
			if rootOpts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), t)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Table %d is now %s\n", t.No, t.Status)
			return err
		},
	}
}

func tableService(cmd *cobra.Command, rootOpts *RootOptions) (*service.TableService, error) {
	cfg, err := rootOpts.load()
	if err != nil {
		return nil, err
	}
	log := logger.NewWithWriter("tables", cmd.ErrOrStderr())
	return service.NewTableService(dashboard.NewGateway(cfg), store.NewTableStore(), store.New(), log), nil
}

func printTables(cmd *cobra.Command, view service.TablesView) error {
	rows := make([][]string, 0, len(view.Tables))
	for _, t := range view.Tables {
		rows = append(rows, []string{"Table " + strconv.Itoa(t.No), t.Status, t.CustomerID, t.OrderID.String()})
	}
	w := cmd.OutOrStdout()
	if err := table(w, []string{"TABLE", "STATUS", "CUSTOMER", "ORDER"}, rows); err != nil {
		return err
	}
	o := view.Occupancy
	_, err := fmt.Fprintf(w, "\n%d of %d occupied (%d%%)%s\n", o.Occupied, o.Total, o.Rate, yesNo(view.Fallback, ", sample data: backend unreachable", ""))
	return err
}
