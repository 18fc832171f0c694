package cli

import (
	"github.com/spf13/cobra"

	"restaurant-dashboard/internal/common/logger"
	"restaurant-dashboard/internal/microservices/dashboard"
	"restaurant-dashboard/internal/microservices/notificator"
)

func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	var transport string
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print order events as they arrive",
		Long: `Connect to the push channel and print one line per order event.

Reconnects after failures until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rootOpts.load()
			if err != nil {
				return err
			}
			if transport != "" {
				cfg.Events.Transport = transport
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			log := logger.NewWithWriter("watch", cmd.ErrOrStderr())
			src, err := dashboard.NewSource(cfg, log)
			if err != nil {
				return err
			}
			return notificator.Start(cmd.Context(), src, cmd.OutOrStdout(), log, cfg.Events.ReconnectDelay)
		},
	}
	cmd.Flags().StringVarP(&transport, "transport", "t", "", "socketio|amqp|postgres, overrides the config")
	return cmd
}
