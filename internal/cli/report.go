package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"restaurant-dashboard/internal/gateway"
	"restaurant-dashboard/internal/microservices/dashboard"
	"restaurant-dashboard/internal/microservices/dashboard/service"
)

func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "report <pdf|excel|word|all>",
		Short: "Download an order report export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rootOpts.load()
			if err != nil {
				return err
			}
			r, err := service.NewReportService(dashboard.NewGateway(cfg)).Download(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer r.Body.Close()

			path := output
			if path == "" {
				path = r.Filename
			}
			n, err := save(path, r)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%d bytes)\n", path, n)
			return err
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write (default: the name the backend suggests)")
	return cmd
}

func save(path string, r *gateway.Report) (int64, error) {
	if path == "-" || strings.TrimSpace(path) == "" {
		return 0, fmt.Errorf("invalid output path %q", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(f, r.Body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return n, fmt.Errorf("write %s: %w", path, err)
	}
	return n, nil
}
