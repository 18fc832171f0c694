package cli

import (
	"github.com/spf13/cobra"

	"restaurant-dashboard/internal/common/logger"
	"restaurant-dashboard/internal/microservices/dashboard"
)

func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard API with the live order view",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rootOpts.load()
			if err != nil {
				return err
			}
			if port != 0 {
				cfg.HTTP.Port = port
			}
			log := logger.NewWithWriter("dashboard", cmd.OutOrStdout())
			return dashboard.Run(cmd.Context(), cfg, log)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "http port, overrides the config")
	return cmd
}
